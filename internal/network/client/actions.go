package client

import (
	"encoding/json"

	"github.com/palemoky/hexdeck-client/internal/protocol"
)

// --- 便捷方法 ---

// StartGame 开始游戏
func (c *Client) StartGame() error {
	return c.Emit(protocol.MsgStartGame, nil)
}

// KickPlayer 踢出玩家
func (c *Client) KickPlayer(playerID string) error {
	return c.Emit(protocol.MsgKickPlayer, protocol.KickPlayerPayload{PlayerID: playerID})
}

// RenamePlayer 修改玩家名字
func (c *Client) RenamePlayer(playerID, username string) error {
	return c.Emit(protocol.MsgUpdatePlayer, protocol.UpdatePlayerPayload{
		PlayerID: playerID,
		Username: &username,
	})
}

// SetCardDeck 选择卡组
func (c *Client) SetCardDeck(cardDeckID int) error {
	return c.Emit(protocol.MsgSetCardDeck, protocol.SetCardDeckPayload{CardDeckID: cardDeckID})
}

// DrawCard 摸牌
func (c *Client) DrawCard() error {
	return c.Emit(protocol.MsgDrawCard, nil)
}

// PlayCard 出牌，data 为卡组需要的附加数据（可为空）
func (c *Client) PlayCard(cardIndex int, data json.RawMessage) error {
	return c.Emit(protocol.MsgPlayCard, protocol.PlayCardPayload{
		CardIndex: &cardIndex,
		CardData:  data,
	})
}

// UpdatePlayedCard 更新最后打出的牌
func (c *Client) UpdatePlayedCard(data json.RawMessage) error {
	return c.Emit(protocol.MsgUpdatePlayedCard, protocol.UpdatePlayedCardPayload{CardData: data})
}
