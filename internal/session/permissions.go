package session

import (
	"context"

	"github.com/palemoky/hexdeck-client/internal/protocol"
)

// PlayerPermissions decodes the permissions of playerID, or of the local
// user when playerID is empty. Unknown players have no permissions.
func (m *Manager) PlayerPermissions(playerID string) protocol.PermissionSet {
	room := m.room.Get()
	if playerID == "" {
		playerID = room.UserID
	}
	player, _ := room.Player(playerID)
	return player.Permissions.Decode()
}

// Player looks up playerID, or the local user when playerID is empty.
func (m *Manager) Player(playerID string) (protocol.PlayerInfo, bool) {
	room := m.room.Get()
	if playerID == "" {
		playerID = room.UserID
	}
	return room.Player(playerID)
}

// IsCurrentPlayer reports whether playerID is the local user.
func (m *Manager) IsCurrentPlayer(playerID string) bool {
	userID := m.room.Get().UserID
	return userID != "" && playerID == userID
}

// HasRoomData reports whether a RoomInfo has been received.
func (m *Manager) HasRoomData() bool {
	return m.room.Get().HasRoomData()
}

// HasSessionData reports whether Connect would find credentials.
func (m *Manager) HasSessionData(ctx context.Context) bool {
	room := m.room.Get()
	if room.SessionToken != "" && room.UserID != "" {
		return true
	}
	rec, ok := m.creds.Current(ctx)
	return ok && rec.Usable()
}
