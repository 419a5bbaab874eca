package protocol

// 服务端 Status 事件的状态码
const (
	StatusInvalidSession         = "invalid_session"
	StatusSupersededConnection   = "connection_from_different_socket"
	StatusInsufficientPermission = "insufficient_permission"
	StatusInvalidPlayer          = "invalid_player"
	StatusUsernameTaken          = "username_taken"
	StatusPlayerKicked           = "player_kicked"
	StatusGameAlreadyStarted     = "game_already_started"
	StatusGameNotRunning         = "game_not_running"
	StatusPlayerNotActive        = "player_not_active"
	StatusMissingParameter       = "missing_parameter"
	StatusInvalidCardIndex       = "invalid_card_index"
	StatusCardNotPlayable        = "card_not_playable"
	StatusCardNotUpdatable       = "card_not_updatable"
)

// HTTP 接口错误体中的状态码
const (
	StatusInvalidJoinCode    = "invalid_join_code"
	StatusGameAlreadyRunning = "game_already_running"
)

// StatusMessages 状态码对应的说明
var StatusMessages = map[string]string{
	StatusInvalidSession:         "No valid sessionToken was provided",
	StatusSupersededConnection:   "User connected from a different socket",
	StatusInsufficientPermission: "Insufficient permission",
	StatusInvalidPlayer:          "No player with the requested playerId was found",
	StatusUsernameTaken:          "The requested username is not available",
	StatusPlayerKicked:           "You were kicked from the room",
	StatusGameAlreadyStarted:     "The game has already started",
	StatusGameNotRunning:         "The game is not running",
	StatusPlayerNotActive:        "You are not the active player",
	StatusMissingParameter:       "A required parameter is missing",
	StatusInvalidCardIndex:       "Provided CardIndex is out of bounds",
	StatusCardNotPlayable:        "You can't play this card now",
	StatusCardNotUpdatable:       "You can't update this card now",
	StatusInvalidJoinCode:        "No valid joinCode was provided",
	StatusGameAlreadyRunning:     "The game has already started",
}
