package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/hexdeck-client/internal/protocol"
	"github.com/palemoky/hexdeck-client/internal/state"
)

func TestPlayerPermissions(t *testing.T) {
	m := New(Options{})
	m.room.Update(func(r state.Room) state.Room {
		r.UserID = "me"
		r.Players = []protocol.PlayerInfo{
			{PlayerID: "me", Permissions: 0},
			{PlayerID: "host", Permissions: 1},
			{PlayerID: "both", Permissions: 3},
			{PlayerID: "other-bit", Permissions: 2},
		}
		return r
	})

	tests := []struct {
		name     string
		playerID string
		isHost   bool
	}{
		{"default is local user", "", false},
		{"bit 0 set", "host", true},
		{"bit 0 with other bits", "both", true},
		{"only other bits", "other-bit", false},
		{"unknown player", "ghost", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isHost, m.PlayerPermissions(tt.playerID).IsHost)
		})
	}
}

func TestPlayerLookup(t *testing.T) {
	m := New(Options{})
	m.room.Update(func(r state.Room) state.Room {
		r.UserID = "me"
		r.Players = []protocol.PlayerInfo{
			{PlayerID: "me", Username: "alice"},
			{PlayerID: "b", Username: "bob"},
		}
		return r
	})

	me, ok := m.Player("")
	require.True(t, ok)
	assert.Equal(t, "alice", me.Username)

	bob, ok := m.Player("b")
	require.True(t, ok)
	assert.Equal(t, "bob", bob.Username)

	_, ok = m.Player("ghost")
	assert.False(t, ok)

	assert.True(t, m.IsCurrentPlayer("me"))
	assert.False(t, m.IsCurrentPlayer("b"))
}

func TestIsCurrentPlayer_NoUser(t *testing.T) {
	m := New(Options{})
	assert.False(t, m.IsCurrentPlayer(""))
	assert.False(t, m.HasRoomData())
}

func TestHasSessionData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.False(t, env.m.HasSessionData(ctx))

	require.NoError(t, env.creds.Save(ctx, "tok", "me", ""))
	assert.True(t, env.m.HasSessionData(ctx))

	require.NoError(t, env.creds.Clear(ctx))
	assert.False(t, env.m.HasSessionData(ctx))

	env.m.room.Update(func(r state.Room) state.Room {
		r.SessionToken = "tok"
		r.UserID = "me"
		return r
	})
	assert.True(t, env.m.HasSessionData(ctx))
}
