package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/hexdeck-client/internal/api"
	"github.com/palemoky/hexdeck-client/internal/protocol"
	"github.com/palemoky/hexdeck-client/internal/state"
)

func TestConnect_PersistsCredentialsAndNavigates(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddRoom("123456")

	token, playerID := env.connect(t, "123456", 0)

	room := env.m.Room().Get()
	assert.True(t, room.Connected)
	assert.Equal(t, token, room.SessionToken)
	assert.Equal(t, playerID, room.UserID)
	assert.Equal(t, PathGame, env.loc.Path())

	// join code arrives with RoomInfo and is persisted afterwards
	assert.Eventually(t, func() bool {
		rec, ok := env.creds.Current(context.Background())
		return ok && rec.JoinCode == "123456"
	}, waitFor, tick)
	rec, _ := env.creds.Current(context.Background())
	assert.Equal(t, token, rec.SessionToken)
	assert.Equal(t, playerID, rec.UserID)
	assert.True(t, env.recorder.isConnected())
}

func TestConnect_ResolvesStoredCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddRoom("123456")
	token, playerID := env.srv.AddSession("123456", "tester", 0)
	require.NoError(t, env.creds.Save(context.Background(), token, playerID, "123456"))

	require.NoError(t, env.m.Connect(context.Background(), "", ""))

	assert.True(t, env.m.IsConnected())
	assert.Equal(t, token, env.m.Room().Get().SessionToken)
	assert.Eventually(t, func() bool { return env.srv.Connected(token) }, waitFor, tick)
}

func TestConnect_WithoutCredentialsIsNoop(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.m.Connect(context.Background(), "", ""))
	require.NoError(t, env.m.Connect(context.Background(), "token-only", ""))

	assert.False(t, env.m.IsConnected())
	assert.Empty(t, env.loc.History())
	assertInitialRoom(t, env.m.Room().Get())
}

func TestConnect_SecondCallKeepsExistingHandle(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddRoom("123456")
	token, playerID := env.connect(t, "123456", 0)

	env.m.mu.Lock()
	first := env.m.conn
	env.m.mu.Unlock()
	before := env.m.Room().Get()

	otherToken, otherID := env.srv.AddSession("123456", "other", 0)
	require.NoError(t, env.m.Connect(context.Background(), otherToken, otherID))

	env.m.mu.Lock()
	assert.Same(t, first, env.m.conn)
	env.m.mu.Unlock()
	assert.Equal(t, before, env.m.Room().Get())
	assert.Equal(t, token, env.m.Room().Get().SessionToken)
	assert.Equal(t, playerID, env.m.Room().Get().UserID)
	assert.False(t, env.srv.Connected(otherToken))
	assert.True(t, env.srv.Connected(token))
}

func TestConnect_DialFailure(t *testing.T) {
	env := newTestEnv(t)
	env.m.wsURL = "ws://127.0.0.1:1/ws"

	err := env.m.Connect(context.Background(), "token", "player")
	require.Error(t, err)
	assert.False(t, env.m.IsConnected())
	assert.Empty(t, env.loc.History())

	_, ok := env.creds.Current(context.Background())
	assert.False(t, ok)

	env.m.mu.Lock()
	assert.Nil(t, env.m.conn)
	env.m.mu.Unlock()
}

func TestConnect_ServerDisconnectKeepsState(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddRoom("123456")
	token, playerID := env.connect(t, "123456", 0)

	env.srv.Drop(token)
	env.waitRoom(t, func(r state.Room) bool { return !r.Connected })

	room := env.m.Room().Get()
	assert.Equal(t, "123456", room.JoinCode)
	assert.Equal(t, token, room.SessionToken)
	assert.NotEmpty(t, room.Players)
	rec, ok := env.creds.Current(context.Background())
	require.True(t, ok)
	assert.Equal(t, token, rec.SessionToken)

	// the stale handle blocks a new connection until it is torn down
	require.NoError(t, env.m.Connect(context.Background(), "", ""))
	assert.False(t, env.m.IsConnected())

	env.m.Disconnect()
	require.NoError(t, env.m.Connect(context.Background(), "", ""))
	assert.True(t, env.m.IsConnected())
	assert.Equal(t, playerID, env.m.Room().Get().UserID)
	assert.Eventually(t, func() bool { return env.srv.Connected(token) }, waitFor, tick)
}

func TestDisconnect_KeepsCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddRoom("123456")
	token, _ := env.connect(t, "123456", 0)

	env.m.Disconnect()

	assert.False(t, env.m.IsConnected())
	assert.False(t, env.recorder.isConnected())
	assert.True(t, env.m.HasSessionData(context.Background()))
	assert.Equal(t, "123456", env.m.Room().Get().JoinCode)
	assert.Eventually(t, func() bool { return !env.srv.Connected(token) }, waitFor, tick)

	// intents are dropped without a handle
	env.m.StartGame()
	assert.Empty(t, env.srv.Received())
}

func TestConnect_StoreSubscribersSeeTransitions(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddRoom("123456")

	var seen []bool
	unsubscribe := env.m.Room().Subscribe(func(r state.Room) {
		if len(seen) == 0 || seen[len(seen)-1] != r.Connected {
			seen = append(seen, r.Connected)
		}
	})
	env.connect(t, "123456", 0)
	env.m.LeaveRoom(context.Background())
	unsubscribe()

	assert.Equal(t, []bool{false, true, false}, seen)
}

func TestConnect_UnreachableAPIStillConnects(t *testing.T) {
	env := newTestEnv(t)
	env.m.api = api.NewClient("http://127.0.0.1:1")
	env.srv.AddRoom("123456")

	env.connect(t, "123456", protocol.Permissions(0))
	assert.Equal(t, PathGame, env.loc.Path())
}
