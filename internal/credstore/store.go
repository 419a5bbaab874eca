package credstore

import (
	"context"
	"errors"

	"github.com/palemoky/hexdeck-client/internal/logger"
)

// Store reads and writes the current and last credential slots.
// Absence of a record is never an error.
type Store struct {
	backend Backend
}

// New creates a Store on top of backend.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Save overwrites the current slot with a full credential set.
func (s *Store) Save(ctx context.Context, sessionToken, userID, joinCode string) error {
	return s.backend.Store(ctx, SlotCurrent, Record{
		Mode:         ModeActive,
		SessionToken: sessionToken,
		UserID:       userID,
		JoinCode:     joinCode,
	})
}

// SaveJoinCodeOnly refreshes the join code of the current record, keeping its
// token and user id. Does nothing if there is no current record.
func (s *Store) SaveJoinCodeOnly(ctx context.Context, joinCode string) error {
	rec, ok := s.load(ctx, SlotCurrent)
	if !ok {
		return nil
	}
	rec.Mode = ModeActive
	rec.JoinCode = joinCode
	return s.backend.Store(ctx, SlotCurrent, rec)
}

// Clear demotes the current record to the last slot, keeping only its join
// code, and deletes the current slot.
func (s *Store) Clear(ctx context.Context) error {
	rec, ok := s.load(ctx, SlotCurrent)
	if !ok {
		return nil
	}
	if err := s.backend.Store(ctx, SlotLast, rec.Historical()); err != nil {
		return err
	}
	return s.backend.Delete(ctx, SlotCurrent)
}

// Current returns the live credential record, if any.
func (s *Store) Current(ctx context.Context) (Record, bool) {
	return s.load(ctx, SlotCurrent)
}

// Last returns the historical record left behind by the last Clear, if any.
func (s *Store) Last(ctx context.Context) (Record, bool) {
	return s.load(ctx, SlotLast)
}

func (s *Store) load(ctx context.Context, slot Slot) (Record, bool) {
	rec, err := s.backend.Load(ctx, slot)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.LogError("load %s credentials: %v", slot, err)
		}
		return Record{}, false
	}
	return rec, true
}
