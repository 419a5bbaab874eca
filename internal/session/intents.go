package session

import (
	"encoding/json"

	"github.com/palemoky/hexdeck-client/internal/logger"
	"github.com/palemoky/hexdeck-client/internal/network/client"
	"github.com/palemoky/hexdeck-client/internal/protocol"
)

// 所有操作都是发出即忘：未连接时静默忽略，发送失败只记录日志
// 权限检查只是本地的快速拒绝，服务器会再次校验

// emit sends over the current handle, if any.
func (m *Manager) emit(event protocol.MessageType, send func(*client.Client) error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		logger.LogDebug("未连接，忽略 %s", event)
		return
	}
	err := send(m.conn)
	m.recorder.EventSent(string(event), err)
	if err != nil {
		logger.LogWarn("发送 %s 失败: %v", event, err)
	}
}

// StartGame 开始游戏
func (m *Manager) StartGame() {
	m.emit(protocol.MsgStartGame, (*client.Client).StartGame)
}

// KickPlayer 踢出玩家，仅房主可用
func (m *Manager) KickPlayer(playerID string) {
	if !m.PlayerPermissions("").IsHost {
		logger.LogDebug("非房主，忽略踢人 %s", playerID)
		return
	}
	m.emit(protocol.MsgKickPlayer, func(c *client.Client) error {
		return c.KickPlayer(playerID)
	})
}

// RenamePlayer 修改名字。playerID 为空时修改自己；修改他人需要房主权限
func (m *Manager) RenamePlayer(playerID, username string) {
	self := m.room.Get().UserID
	if playerID == "" {
		playerID = self
	}
	if playerID != self && !m.PlayerPermissions("").IsHost {
		logger.LogDebug("非房主，忽略修改 %s 的名字", playerID)
		return
	}
	m.emit(protocol.MsgUpdatePlayer, func(c *client.Client) error {
		return c.RenamePlayer(playerID, username)
	})
}

// SetCardDeck 选择卡组
func (m *Manager) SetCardDeck(cardDeckID int) {
	m.emit(protocol.MsgSetCardDeck, func(c *client.Client) error {
		return c.SetCardDeck(cardDeckID)
	})
}

// DrawCard 摸牌
func (m *Manager) DrawCard() {
	m.emit(protocol.MsgDrawCard, (*client.Client).DrawCard)
}

// PlayCard 打出手牌中第 cardIndex 张，data 为卡组需要的附加数据
func (m *Manager) PlayCard(cardIndex int, data json.RawMessage) {
	m.emit(protocol.MsgPlayCard, func(c *client.Client) error {
		return c.PlayCard(cardIndex, data)
	})
}

// UpdatePlayedCard 更新最后打出的牌
func (m *Manager) UpdatePlayedCard(data json.RawMessage) {
	m.emit(protocol.MsgUpdatePlayedCard, func(c *client.Client) error {
		return c.UpdatePlayedCard(data)
	})
}

// SendMessage 透传任意事件，event 为空时使用通用事件名
func (m *Manager) SendMessage(event protocol.MessageType, payload any) {
	if event == "" {
		event = protocol.MsgGeneric
	}
	m.emit(event, func(c *client.Client) error {
		return c.Emit(event, payload)
	})
}
