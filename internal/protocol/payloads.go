package protocol

import (
	"bytes"
	"encoding/json"
)

// Card 卡牌数据，由卡组定义，客户端不解析其结构
type Card = json.RawMessage

// IsEmptyCard 判断卡牌数据是否缺失
func IsEmptyCard(c Card) bool {
	trimmed := bytes.TrimSpace(c)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// GameState 房间的游戏阶段
type GameState int

const (
	GameStateUndefined GameState = -1
	GameStateLobby     GameState = 0
	GameStateRunning   GameState = 1
	GameStateEnded     GameState = 2
)

func (s GameState) String() string {
	switch s {
	case GameStateLobby:
		return "lobby"
	case GameStateRunning:
		return "running"
	case GameStateEnded:
		return "ended"
	default:
		return "undefined"
	}
}

// 卡组编号
const (
	CardDeckClassic = 0
	CardDeckHexV1   = 1
)

// --- 客户端请求 Payloads ---

// KickPlayerPayload 踢人请求
type KickPlayerPayload struct {
	PlayerID string `json:"PlayerId"`
}

// UpdatePlayerPayload 修改玩家请求
type UpdatePlayerPayload struct {
	PlayerID    string  `json:"PlayerId"`
	Username    *string `json:"Username,omitempty"`
	Permissions *int    `json:"Permissions,omitempty"`
}

// SetCardDeckPayload 选择卡组请求
type SetCardDeckPayload struct {
	CardDeckID int `json:"CardDeckId"`
}

// PlayCardPayload 出牌请求
type PlayCardPayload struct {
	CardIndex *int            `json:"CardIndex"`
	CardData  json.RawMessage `json:"CardData,omitempty"`
}

// UpdatePlayedCardPayload 更新已出牌请求
type UpdatePlayedCardPayload struct {
	CardData json.RawMessage `json:"CardData,omitempty"`
}

// --- 服务端推送 Payloads ---

// StatusPayload 状态通知
type StatusPayload struct {
	IsError    bool   `json:"IsError"`
	StatusCode string `json:"StatusCode"`
	Message    string `json:"Message"`
}

// PlayerInfo 房间内的玩家
type PlayerInfo struct {
	PlayerID    string      `json:"PlayerId"`
	Username    string      `json:"Username"`
	Permissions Permissions `json:"Permissions"`
	IsConnected bool        `json:"IsConnected"`
}

// RoomInfoPayload 房间快照
type RoomInfoPayload struct {
	RoomID     string       `json:"RoomId"`
	JoinCode   string       `json:"JoinCode"`
	GameState  GameState    `json:"GameState"`
	TopCard    Card         `json:"TopCard,omitempty"`
	CardDeckID int          `json:"CardDeckId"`
	Winner     *string      `json:"Winner,omitempty"`
	Players    []PlayerInfo `json:"Players"`
}

// OwnCard 手牌中的一张
type OwnCard struct {
	CanPlay bool `json:"CanPlay"`
	Card    Card `json:"Card"`
}

// OwnCardsPayload 自己的手牌
type OwnCardsPayload struct {
	Cards []OwnCard `json:"Cards"`
}

// PlayerStatePayload 单个玩家的状态
type PlayerStatePayload struct {
	PlayerID string `json:"PlayerId"`
	NumCards int    `json:"NumCards"`
	Active   bool   `json:"Active"`
}

// CardPlayedPayload 出牌通知
type CardPlayedPayload struct {
	Card      Card   `json:"Card"`
	CardIndex int    `json:"CardIndex"`
	PlayedBy  string `json:"PlayedBy"`
}

// PlayedCardUpdatePayload 已出牌更新通知
type PlayedCardUpdatePayload struct {
	UpdatedBy string `json:"UpdatedBy"`
	Card      Card   `json:"Card"`
}
