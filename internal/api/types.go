package api

import "github.com/palemoky/hexdeck-client/internal/protocol"

// JoinRoomRequest body of POST /api/room/join.
type JoinRoomRequest struct {
	JoinCode         string `json:"JoinCode"`
	UsernameProposal string `json:"UsernameProposal"`
}

// CreateRoomRequest body of POST /api/room/create.
type CreateRoomRequest struct {
	UsernameProposal string `json:"UsernameProposal"`
}

// LeaveRoomRequest body of POST /api/room/leave.
type LeaveRoomRequest struct {
	SessionToken string `json:"SessionToken"`
}

// SessionReply is returned by create and join. It carries everything
// needed to open the realtime connection.
type SessionReply struct {
	SessionToken string               `json:"SessionToken"`
	PlayerID     string               `json:"PlayerId"`
	Username     string               `json:"Username"`
	Permissions  protocol.Permissions `json:"Permissions"`
}

// ErrorReply is the body of non-2xx responses.
type ErrorReply struct {
	StatusCode string `json:"StatusCode"`
	Message    string `json:"Message"`
}

// StatsReply body of GET /api/stats.
type StatsReply struct {
	TotalGamesPlayed  int `json:"TotalGamesPlayed"`
	RunningGames      int `json:"RunningGames"`
	OnlinePlayerCount int `json:"OnlinePlayerCount"`
}
