package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissions_IsHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		perms Permissions
		want  bool
	}{
		{"zero", 0, false},
		{"host bit", 1, true},
		{"other bit only", 2, false},
		{"host and other bits", 7, true},
		{"negative with bit 0", -1, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.perms.IsHost())
			assert.Equal(t, PermissionSet{IsHost: tt.want}, tt.perms.Decode())
		})
	}
}

func TestPermissions_With(t *testing.T) {
	t.Parallel()

	var p Permissions
	assert.False(t, p.IsHost())
	p = p.With(PermissionHost)
	assert.True(t, p.IsHost())
	assert.Equal(t, Permissions(1), p)
}

func TestIsEmptyCard(t *testing.T) {
	t.Parallel()

	assert.True(t, IsEmptyCard(nil))
	assert.True(t, IsEmptyCard(Card("null")))
	assert.True(t, IsEmptyCard(Card("  ")))
	assert.False(t, IsEmptyCard(Card(`{"Color":1}`)))
	assert.False(t, IsEmptyCard(Card(`0`)))
}

func TestRoomInfoPayload_Decode(t *testing.T) {
	t.Parallel()

	raw := `{
		"RoomId": "r1",
		"JoinCode": "123456",
		"GameState": 1,
		"TopCard": {"Color": 2, "Symbol": "skip"},
		"CardDeckId": 1,
		"Winner": null,
		"Players": [
			{"PlayerId": "p1", "Username": "alice", "Permissions": 1, "IsConnected": true},
			{"PlayerId": "p2", "Username": "bob", "Permissions": 0, "IsConnected": false}
		]
	}`

	var info RoomInfoPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &info))

	assert.Equal(t, "r1", info.RoomID)
	assert.Equal(t, GameStateRunning, info.GameState)
	assert.Equal(t, CardDeckHexV1, info.CardDeckID)
	assert.Nil(t, info.Winner)
	require.Len(t, info.Players, 2)
	assert.True(t, info.Players[0].Permissions.IsHost())
	assert.False(t, info.Players[1].Permissions.IsHost())
	assert.JSONEq(t, `{"Color": 2, "Symbol": "skip"}`, string(info.TopCard))
}

func TestMessageType_IsInbound(t *testing.T) {
	t.Parallel()

	assert.True(t, MsgRoomInfo.IsInbound())
	assert.True(t, MsgPlayedCardUpdate.IsInbound())
	assert.False(t, MsgPlayCard.IsInbound())
	assert.False(t, EventConnect.IsInbound())
}

func TestGameState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "undefined", GameStateUndefined.String())
	assert.Equal(t, "lobby", GameStateLobby.String())
	assert.Equal(t, "running", GameStateRunning.String())
	assert.Equal(t, "ended", GameStateEnded.String())
}
