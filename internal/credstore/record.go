// Package credstore persists reconnection credentials between client runs.
//
// Two slots exist: the current slot holds a live (Active) record with the
// session token, user id and join code; the last slot holds a Historical
// record that only remembers the join code of the room the user left.
package credstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Backend when a slot holds no record.
var ErrNotFound = errors.New("credstore: record not found")

// Mode tells whether a record is usable for reconnecting.
type Mode string

const (
	ModeActive     Mode = "active"
	ModeHistorical Mode = "historical"
)

// Slot names a persisted record.
type Slot string

const (
	SlotCurrent Slot = "current"
	SlotLast    Slot = "last"
)

// Record is the persisted credential set.
type Record struct {
	Mode         Mode   `json:"mode"`
	SessionToken string `json:"sessionToken,omitempty"`
	UserID       string `json:"userId,omitempty"`
	JoinCode     string `json:"joinCode,omitempty"`
}

// Usable reports whether the record can authenticate a connection.
func (r Record) Usable() bool {
	return r.Mode == ModeActive && r.SessionToken != "" && r.UserID != ""
}

// Historical returns the record demoted to what the last slot keeps.
func (r Record) Historical() Record {
	return Record{Mode: ModeHistorical, JoinCode: r.JoinCode}
}

// Backend is durable key/value storage for records.
type Backend interface {
	Load(ctx context.Context, slot Slot) (Record, error)
	Store(ctx context.Context, slot Slot, rec Record) error
	Delete(ctx context.Context, slot Slot) error
}
