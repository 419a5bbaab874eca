package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/hexdeck-client/internal/api"
	"github.com/palemoky/hexdeck-client/internal/credstore"
	"github.com/palemoky/hexdeck-client/internal/protocol"
	"github.com/palemoky/hexdeck-client/internal/state"
	"github.com/palemoky/hexdeck-client/internal/testutil"
)

const (
	waitFor = 2 * time.Second
	tick    = 10 * time.Millisecond
)

type fakeRecorder struct {
	mu        sync.Mutex
	received  []string
	sent      []string
	connected bool
}

func (r *fakeRecorder) EventReceived(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received = append(r.received, event)
}

func (r *fakeRecorder) EventSent(event string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, event)
}

func (r *fakeRecorder) SetConnected(connected bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connected = connected
}

func (r *fakeRecorder) isConnected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connected
}

func (r *fakeRecorder) sentEvents() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent...)
}

type testEnv struct {
	srv      *testutil.FakeServer
	creds    *credstore.Store
	loc      *MemoryLocation
	recorder *fakeRecorder
	m        *Manager
	quiet    bool // server sends no RoomInfo on connect
}

func newTestEnv(t *testing.T, opts ...api.Option) *testEnv {
	t.Helper()
	srv := testutil.NewFakeServer(t)
	return newTestEnvWith(t, srv, api.NewClient(srv.URL, opts...))
}

func newTestEnvWith(t *testing.T, srv *testutil.FakeServer, apiClient *api.Client) *testEnv {
	t.Helper()
	env := &testEnv{
		srv:      srv,
		creds:    credstore.New(credstore.NewMemoryBackend()),
		loc:      NewMemoryLocation(),
		recorder: &fakeRecorder{},
	}
	env.m = New(Options{
		API:              apiClient,
		Credentials:      env.creds,
		WSURL:            srv.WSURL(),
		UsernameProposal: "tester",
		Location:         env.loc,
		Recorder:         env.recorder,
	})
	t.Cleanup(func() {
		env.m.Disconnect()
		env.m.Wait()
	})
	return env
}

// connect joins a fresh player to the room with joinCode and waits for
// the first RoomInfo, unless the server does not send one.
func (e *testEnv) connect(t *testing.T, joinCode string, perms protocol.Permissions) (token, playerID string) {
	t.Helper()
	token, playerID = e.srv.AddSession(joinCode, "tester", perms)
	require.NoError(t, e.m.Connect(context.Background(), token, playerID))
	require.True(t, e.m.IsConnected())
	if !e.quiet {
		e.waitRoom(t, func(r state.Room) bool { return r.HasRoomData() })
	}
	require.Eventually(t, func() bool { return e.srv.Connected(token) }, waitFor, tick)
	return token, playerID
}

func (e *testEnv) waitRoom(t *testing.T, cond func(state.Room) bool) {
	t.Helper()
	require.Eventually(t, func() bool { return cond(e.m.Room().Get()) }, waitFor, tick)
}

// push sends event to token and waits until the manager handled it.
func (e *testEnv) push(t *testing.T, token string, event protocol.MessageType, payload any) {
	t.Helper()
	e.recorder.mu.Lock()
	before := len(e.recorder.received)
	e.recorder.mu.Unlock()

	require.NoError(t, e.srv.Push(token, event, payload))
	require.Eventually(t, func() bool {
		e.recorder.mu.Lock()
		defer e.recorder.mu.Unlock()
		return len(e.recorder.received) > before
	}, waitFor, tick)
}

func assertInitialRoom(t *testing.T, r state.Room) {
	t.Helper()
	assert.Equal(t, state.InitialRoom(), r)
}
