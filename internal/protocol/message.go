package protocol

import "encoding/json"

// Message 实时通道的基础消息结构，每个 websocket 文本帧一条
type Message struct {
	Type    MessageType     `json:"event"`
	Payload json.RawMessage `json:"data,omitempty"`
}

// MessageType 事件名称
type MessageType string

// 客户端 → 服务端 事件
const (
	// 房间管理（需要房主权限，服务端会再次校验）
	MsgStartGame    MessageType = "StartGame"    // 开始游戏
	MsgKickPlayer   MessageType = "KickPlayer"   // 踢出玩家
	MsgUpdatePlayer MessageType = "UpdatePlayer" // 修改玩家信息（改名）
	MsgSetCardDeck  MessageType = "SetCardDeck"  // 选择卡组

	// 游戏操作
	MsgDrawCard         MessageType = "DrawCard"         // 摸牌
	MsgPlayCard         MessageType = "PlayCard"         // 出牌
	MsgUpdatePlayedCard MessageType = "UpdatePlayedCard" // 更新已出的牌（例如选择颜色）

	// 透传事件
	MsgGeneric MessageType = "event"
)

// 服务端 → 客户端 事件
const (
	MsgStatus           MessageType = "Status"           // 状态 / 错误通知
	MsgRoomInfo         MessageType = "RoomInfo"         // 房间快照
	MsgOwnCards         MessageType = "OwnCards"         // 自己的手牌
	MsgPlayerState      MessageType = "PlayerState"      // 单个玩家状态
	MsgCardPlayed       MessageType = "CardPlayed"       // 有人出牌
	MsgPlayedCardUpdate MessageType = "PlayedCardUpdate" // 最后一张牌被更新
)

// 传输层事件，不在线路上出现
const (
	EventConnect    MessageType = "connect"
	EventDisconnect MessageType = "disconnect"
	EventError      MessageType = "error"
)

// IsInbound 是否是服务端推送的事件
func (t MessageType) IsInbound() bool {
	switch t {
	case MsgStatus, MsgRoomInfo, MsgOwnCards, MsgPlayerState, MsgCardPlayed, MsgPlayedCardUpdate:
		return true
	}
	return false
}
