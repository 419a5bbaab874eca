package session

import (
	"bytes"
	"context"

	"github.com/palemoky/hexdeck-client/internal/logger"
	"github.com/palemoky/hexdeck-client/internal/network/client"
	"github.com/palemoky/hexdeck-client/internal/protocol"
	"github.com/palemoky/hexdeck-client/internal/protocol/encoding"
	"github.com/palemoky/hexdeck-client/internal/state"
)

// dispatch 处理服务器消息
// 按消息类型分发到具体的处理函数，消息来自已被替换的连接时直接丢弃
func (m *Manager) dispatch(c *client.Client, msg *protocol.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != c {
		return
	}

	logger.LogDebug("收到 %s: %s", msg.Type, msg.Payload)

	switch msg.Type {
	case protocol.MsgStatus:
		m.handleStatus(msg)
	case protocol.MsgRoomInfo:
		m.handleRoomInfo(msg)
	case protocol.MsgOwnCards:
		m.handleOwnCards(msg)
	case protocol.MsgPlayerState:
		m.handlePlayerState(msg)
	case protocol.MsgCardPlayed:
		m.handleCardPlayed(msg)
	case protocol.MsgPlayedCardUpdate:
		m.handlePlayedCardUpdate(msg)
	default:
		logger.LogDebug("忽略未知事件 %s", msg.Type)
	}
	m.recorder.EventReceived(string(msg.Type))
}

// logged copies msg for the message log; the read loop reuses msg.
func logged(msgs []protocol.Message, msg *protocol.Message) []protocol.Message {
	out := make([]protocol.Message, len(msgs), len(msgs)+1)
	copy(out, msgs)
	return append(out, protocol.Message{Type: msg.Type, Payload: bytes.Clone(msg.Payload)})
}

// --- 连接状态 ---

func (m *Manager) handleStatus(msg *protocol.Message) {
	m.room.Update(func(r state.Room) state.Room {
		r.Messages = logged(r.Messages, msg)
		return r
	})

	payload, err := encoding.ParsePayload[protocol.StatusPayload](msg)
	if err != nil {
		logger.LogWarn("解析 Status 失败: %v", err)
		return
	}

	if payload.StatusCode == protocol.StatusSupersededConnection {
		// 同一会话在别处建立了连接：只丢弃本地连接，不通知服务器离开
		logger.LogWarn("连接已被其他连接取代: %s", payload.Message)
		m.dropConnLocked()
		m.location.Navigate(PathRoot)
		return
	}
	if payload.IsError {
		logger.LogWarn("服务器返回错误 %s: %s", payload.StatusCode, payload.Message)
		return
	}
	logger.LogInfo("服务器状态 %s: %s", payload.StatusCode, payload.Message)
}

// --- 房间 ---

func (m *Manager) handleRoomInfo(msg *protocol.Message) {
	payload, err := encoding.ParsePayload[protocol.RoomInfoPayload](msg)
	if err != nil {
		logger.LogWarn("解析 RoomInfo 失败: %v", err)
		return
	}

	hasTopCard := !protocol.IsEmptyCard(payload.TopCard)
	seed := hasTopCard && !m.topCardSeen
	if hasTopCard {
		m.topCardSeen = true
	}

	m.room.Update(func(r state.Room) state.Room {
		r.RoomID = payload.RoomID
		r.JoinCode = payload.JoinCode
		r.GameState = payload.GameState
		r.CardDeckID = payload.CardDeckID
		r.Players = payload.Players
		if r.Players == nil {
			r.Players = []protocol.PlayerInfo{}
		}
		r.Winner = ""
		if payload.Winner != nil {
			r.Winner = *payload.Winner
		}
		if seed && len(r.PlayedCards) == 0 {
			r.PlayedCards = []state.PlayedCard{{
				Card:      payload.TopCard,
				CardIndex: state.TopCardIndex,
			}}
		}
		r.Messages = logged(r.Messages, msg)
		return r
	})

	if err := m.creds.SaveJoinCodeOnly(context.Background(), payload.JoinCode); err != nil {
		logger.LogError("保存房间号失败: %v", err)
	}
}

// --- 游戏 ---

func (m *Manager) handleOwnCards(msg *protocol.Message) {
	payload, err := encoding.ParsePayload[protocol.OwnCardsPayload](msg)
	if err != nil {
		logger.LogWarn("解析 OwnCards 失败: %v", err)
		return
	}

	hand := payload.Cards
	if hand == nil {
		hand = []protocol.OwnCard{}
	}
	m.room.Update(func(r state.Room) state.Room {
		r.Hand = hand
		return r
	})
}

func (m *Manager) handlePlayerState(msg *protocol.Message) {
	payload, err := encoding.ParsePayload[protocol.PlayerStatePayload](msg)
	if err != nil {
		logger.LogWarn("解析 PlayerState 失败: %v", err)
		return
	}
	if payload.PlayerID == "" {
		logger.LogWarn("PlayerState 缺少 PlayerId")
		return
	}

	m.room.Update(func(r state.Room) state.Room {
		states := make(map[string]protocol.PlayerStatePayload, len(r.PlayerStates)+1)
		for id, ps := range r.PlayerStates {
			states[id] = ps
		}
		states[payload.PlayerID] = *payload
		r.PlayerStates = states
		return r
	})
}

func (m *Manager) handleCardPlayed(msg *protocol.Message) {
	payload, err := encoding.ParsePayload[protocol.CardPlayedPayload](msg)
	if err != nil {
		logger.LogWarn("解析 CardPlayed 失败: %v", err)
		return
	}

	m.room.Update(func(r state.Room) state.Room {
		played := make([]state.PlayedCard, len(r.PlayedCards), len(r.PlayedCards)+1)
		copy(played, r.PlayedCards)
		r.PlayedCards = append(played, state.PlayedCard{
			Card:      payload.Card,
			CardIndex: payload.CardIndex,
			PlayedBy:  payload.PlayedBy,
		})
		return r
	})
}

func (m *Manager) handlePlayedCardUpdate(msg *protocol.Message) {
	payload, err := encoding.ParsePayload[protocol.PlayedCardUpdatePayload](msg)
	if err != nil {
		logger.LogWarn("解析 PlayedCardUpdate 失败: %v", err)
		return
	}

	m.room.Update(func(r state.Room) state.Room {
		n := len(r.PlayedCards)
		if n == 0 {
			return r
		}
		played := make([]state.PlayedCard, n)
		copy(played, r.PlayedCards)
		played[n-1].Card = payload.Card
		r.PlayedCards = played
		return r
	})
}
