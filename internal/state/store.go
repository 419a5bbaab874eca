// Package state holds observable client state.
//
// A Store has exactly one writer. Readers either take a snapshot with Get or
// Subscribe, which delivers the current value immediately and then every
// published value in write order.
package state

import (
	"sort"
	"sync"
)

// Store is an observable value of type T.
type Store[T any] struct {
	mu    sync.RWMutex // guards value and subs
	value T
	subs  map[uint64]func(T)
	next  uint64

	// serializes Set/Update including notification so subscribers see
	// values in write order
	writeMu sync.Mutex
}

// NewStore creates a store holding initial.
func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{value: initial, subs: make(map[uint64]func(T))}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Subscribe calls fn with the current value, then with every new value,
// until the returned function is called. fn must not write to the store.
func (s *Store[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.writeMu.Lock()
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	current := s.value
	s.mu.Unlock()

	fn(current)
	s.writeMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Set replaces the value and publishes it.
func (s *Store[T]) Set(v T) {
	s.Update(func(T) T { return v })
}

// Update derives the next value from the current one and publishes it.
// fn must return a value that shares no mutable memory it intends to keep
// changing; published values are treated as immutable by readers.
func (s *Store[T]) Update(fn func(T) T) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.value = fn(s.value)
	v := s.value
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, sub := range subs {
		sub(v)
	}
}

// snapshotSubs returns subscribers in subscription order. Caller holds mu.
func (s *Store[T]) snapshotSubs() []func(T) {
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	subs := make([]func(T), len(ids))
	for i, id := range ids {
		subs[i] = s.subs[id]
	}
	return subs
}
