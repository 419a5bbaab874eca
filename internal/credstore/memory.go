package credstore

import (
	"context"
	"sync"
)

// MemoryBackend keeps records in process memory.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[Slot]Record
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[Slot]Record)}
}

func (b *MemoryBackend) Load(_ context.Context, slot Slot) (Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rec, ok := b.records[slot]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (b *MemoryBackend) Store(_ context.Context, slot Slot, rec Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[slot] = rec
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, slot Slot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.records, slot)
	return nil
}
