package state

import "github.com/palemoky/hexdeck-client/internal/protocol"

// NoCardDeck marks an unknown card deck before the first RoomInfo.
const NoCardDeck = -1

// TopCardIndex is the CardIndex of the synthetic entry seeded from the
// room's top card; it was not played by anyone.
const TopCardIndex = -1

// PlayedCard is one entry of the played-card history.
type PlayedCard struct {
	Card      protocol.Card
	CardIndex int
	PlayedBy  string
}

// Room mirrors the server's view of the room the client is in.
type Room struct {
	RoomID     string
	JoinCode   string
	GameState  protocol.GameState
	CardDeckID int
	Players    []protocol.PlayerInfo
	Winner     string

	PlayedCards  []PlayedCard
	Hand         []protocol.OwnCard
	PlayerStates map[string]protocol.PlayerStatePayload

	Connected    bool
	SessionToken string
	UserID       string

	// Messages logs Status and RoomInfo events in arrival order.
	Messages []protocol.Message
}

// InitialRoom is the state before joining and after leaving.
func InitialRoom() Room {
	return Room{
		GameState:    protocol.GameStateUndefined,
		CardDeckID:   NoCardDeck,
		Players:      []protocol.PlayerInfo{},
		PlayedCards:  []PlayedCard{},
		Hand:         []protocol.OwnCard{},
		PlayerStates: map[string]protocol.PlayerStatePayload{},
		Messages:     []protocol.Message{},
	}
}

// HasRoomData reports whether a RoomInfo has been received.
func (r Room) HasRoomData() bool {
	return r.GameState != protocol.GameStateUndefined
}

// Player finds a player by id.
func (r Room) Player(playerID string) (protocol.PlayerInfo, bool) {
	for _, p := range r.Players {
		if p.PlayerID == playerID {
			return p, true
		}
	}
	return protocol.PlayerInfo{}, false
}

// PlayerState returns the last known state of a player. ok is false when
// nothing is known yet, which is different from zero cards.
func (r Room) PlayerState(playerID string) (protocol.PlayerStatePayload, bool) {
	ps, ok := r.PlayerStates[playerID]
	return ps, ok
}

// TopCard returns the most recent played card.
func (r Room) TopCard() (PlayedCard, bool) {
	if len(r.PlayedCards) == 0 {
		return PlayedCard{}, false
	}
	return r.PlayedCards[len(r.PlayedCards)-1], true
}

// IsMyTurn reports whether the local player is marked active.
func (r Room) IsMyTurn() bool {
	ps, ok := r.PlayerStates[r.UserID]
	return ok && ps.Active
}
