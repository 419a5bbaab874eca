package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/hexdeck-client/internal/api"
	"github.com/palemoky/hexdeck-client/internal/protocol"
	"github.com/palemoky/hexdeck-client/internal/state"
	"github.com/palemoky/hexdeck-client/internal/testutil"
)

func TestJoinRoom_NormalizesCodeAndConnects(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddRoom("AB12CD34")

	require.NoError(t, env.m.JoinRoom(context.Background(), "AB12-CD34"))

	bodies := env.srv.JoinBodies()
	require.Len(t, bodies, 1)
	assert.Equal(t, "AB12CD34", bodies[0]["JoinCode"])
	assert.Equal(t, "tester", bodies[0]["UsernameProposal"])

	assert.True(t, env.m.IsConnected())
	assert.Equal(t, PathGame, env.loc.Path())
	lobby := env.m.Lobby().Get()
	assert.Equal(t, state.LoadingNone, lobby.Loading)
	assert.Empty(t, lobby.JoinError)

	env.waitRoom(t, func(r state.Room) bool { return r.JoinCode == "AB12CD34" })
}

func TestJoinRoom_Failures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*testutil.FakeServer)
		code    string
		wantErr string
	}{
		{
			name:    "unknown code",
			setup:   func(*testutil.FakeServer) {},
			code:    "ZZZZ-ZZZZ",
			wantErr: string(api.CategoryNoRoomFound),
		},
		{
			name: "server message is shown verbatim",
			setup: func(s *testutil.FakeServer) {
				s.AddRoom("123456")
				s.SetGameState("123456", protocol.GameStateRunning)
			},
			code:    "123456",
			wantErr: "You cannot join this room as the game has already started",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.setup(env.srv)

			var loading []state.Loading
			unsubscribe := env.m.Lobby().Subscribe(func(l state.Lobby) {
				loading = append(loading, l.Loading)
			})
			defer unsubscribe()

			err := env.m.JoinRoom(context.Background(), tt.code)
			require.Error(t, err)

			lobby := env.m.Lobby().Get()
			assert.Equal(t, tt.wantErr, lobby.JoinError)
			assert.Empty(t, lobby.CreateError)
			assert.Equal(t, state.LoadingNone, lobby.Loading)
			assert.Equal(t, []state.Loading{state.LoadingNone, state.LoadingJoin, state.LoadingNone}, loading)

			assert.False(t, env.m.IsConnected())
			assert.False(t, env.m.HasSessionData(context.Background()))
			assert.Empty(t, env.loc.History())
		})
	}
}

func TestJoinRoom_ClearsPreviousError(t *testing.T) {
	env := newTestEnv(t)
	require.Error(t, env.m.JoinRoom(context.Background(), "nope"))
	require.NotEmpty(t, env.m.Lobby().Get().JoinError)

	env.srv.AddRoom("123456")
	require.NoError(t, env.m.JoinRoom(context.Background(), "123456"))
	assert.Empty(t, env.m.Lobby().Get().JoinError)
}

func TestCreateRoom_ConnectsAsHost(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.m.CreateRoom(context.Background()))

	assert.True(t, env.m.IsConnected())
	assert.Empty(t, env.m.Lobby().Get().CreateError)
	env.waitRoom(t, func(r state.Room) bool { return r.HasRoomData() })
	assert.True(t, env.m.PlayerPermissions("").IsHost)

	me, ok := env.m.Player("")
	require.True(t, ok)
	assert.Equal(t, "tester", me.Username)
}

func TestCreateRoom_Timeout(t *testing.T) {
	env := newTestEnv(t, api.WithTimeout(100*time.Millisecond))
	env.srv.SetCreateDelay(2 * time.Second)

	start := time.Now()
	err := env.m.CreateRoom(context.Background())
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)

	lobby := env.m.Lobby().Get()
	assert.Equal(t, string(api.CategoryTimeout), lobby.CreateError)
	assert.Empty(t, lobby.JoinError)
	assert.Equal(t, state.LoadingNone, lobby.Loading)
	assert.False(t, env.m.IsConnected())
}

func TestLeaveRoom(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddRoom("123456")
	token, _ := env.connect(t, "123456", 0)
	require.Eventually(t, func() bool {
		rec, ok := env.creds.Current(context.Background())
		return ok && rec.JoinCode == "123456"
	}, waitFor, tick)

	env.m.LeaveRoom(context.Background())

	// local effects are synchronous
	assertInitialRoom(t, env.m.Room().Get())
	assert.False(t, env.m.IsConnected())
	assert.Equal(t, PathRoot, env.loc.Path())
	_, ok := env.creds.Current(context.Background())
	assert.False(t, ok)
	last, ok := env.creds.Last(context.Background())
	require.True(t, ok)
	assert.Equal(t, "123456", last.JoinCode)
	assert.Empty(t, last.SessionToken)

	env.m.mu.Lock()
	assert.Nil(t, env.m.conn)
	env.m.mu.Unlock()

	env.m.Wait()
	assert.Equal(t, []string{token}, env.srv.LeaveTokens())
	assert.Eventually(t, func() bool { return !env.srv.Connected(token) }, waitFor, tick)
}

func TestLeaveRoom_ServerUnreachable(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	env := newTestEnvWith(t, srv, api.NewClient("http://127.0.0.1:1", api.WithTimeout(200*time.Millisecond)))
	srv.AddRoom("123456")
	env.connect(t, "123456", 0)

	env.m.LeaveRoom(context.Background())
	env.m.Wait()

	assertInitialRoom(t, env.m.Room().Get())
	assert.Equal(t, PathRoot, env.loc.Path())
	assert.False(t, env.m.HasSessionData(context.Background()))
	assert.Empty(t, srv.LeaveTokens())
}

func TestLeaveRoom_WithoutSession(t *testing.T) {
	env := newTestEnv(t)

	env.m.LeaveRoom(context.Background())
	env.m.Wait()

	assert.Empty(t, env.srv.LeaveTokens())
	assertInitialRoom(t, env.m.Room().Get())
	assert.Equal(t, []string{PathRoot}, env.loc.History())
}

func TestLeaveRoom_UsesStoredToken(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddRoom("123456")
	token, playerID := env.srv.AddSession("123456", "tester", 0)
	require.NoError(t, env.creds.Save(context.Background(), token, playerID, "123456"))

	env.m.LeaveRoom(context.Background())
	env.m.Wait()

	assert.Equal(t, []string{token}, env.srv.LeaveTokens())
	last, ok := env.creds.Last(context.Background())
	require.True(t, ok)
	assert.Equal(t, "123456", last.JoinCode)
}
