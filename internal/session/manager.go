// Package session keeps a HexDeck client in sync with the room it plays in.
//
// A Manager owns the realtime connection, mirrors server pushes into the
// room store and turns user intents into outbound events. It is the only
// writer of its stores; everything else reads through Get or Subscribe.
package session

import (
	"sync"

	"github.com/palemoky/hexdeck-client/internal/api"
	"github.com/palemoky/hexdeck-client/internal/credstore"
	"github.com/palemoky/hexdeck-client/internal/network/client"
	"github.com/palemoky/hexdeck-client/internal/state"
)

// Recorder receives connection and event counts. *metrics.Metrics
// implements it.
type Recorder interface {
	EventReceived(event string)
	EventSent(event string, err error)
	SetConnected(connected bool)
}

type nopRecorder struct{}

func (nopRecorder) EventReceived(string)    {}
func (nopRecorder) EventSent(string, error) {}
func (nopRecorder) SetConnected(bool)       {}

// Options configures a Manager.
type Options struct {
	API              *api.Client
	Credentials      *credstore.Store
	WSURL            string // e.g. ws://localhost:3000/ws
	UsernameProposal string

	Location Location // defaults to a MemoryLocation
	Recorder Recorder // optional
}

// Manager is the client session. Create one per process with New.
type Manager struct {
	api      *api.Client
	creds    *credstore.Store
	wsURL    string
	username string
	location Location
	recorder Recorder

	room  *state.Store[state.Room]
	lobby *state.Store[state.Lobby]

	// mu serializes user calls with the handlers of the read loop
	mu   sync.Mutex
	conn *client.Client
	// topCardSeen is set by the first RoomInfo carrying a top card after connect
	topCardSeen bool

	bg sync.WaitGroup // background leave requests
}

// New creates an idle manager with empty state.
func New(opts Options) *Manager {
	m := &Manager{
		api:      opts.API,
		creds:    opts.Credentials,
		wsURL:    opts.WSURL,
		username: opts.UsernameProposal,
		location: opts.Location,
		recorder: opts.Recorder,
		room:     state.NewStore(state.InitialRoom()),
		lobby:    state.NewStore(state.Lobby{}),
	}
	if m.location == nil {
		m.location = NewMemoryLocation()
	}
	if m.recorder == nil {
		m.recorder = nopRecorder{}
	}
	return m
}

// Room is the synchronized room state.
func (m *Manager) Room() *state.Store[state.Room] {
	return m.room
}

// Lobby is the state of the screens outside a room.
func (m *Manager) Lobby() *state.Store[state.Lobby] {
	return m.lobby
}

// Wait blocks until background requests started by LeaveRoom finished.
func (m *Manager) Wait() {
	m.bg.Wait()
}
