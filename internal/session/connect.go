package session

import (
	"context"
	"fmt"

	"github.com/palemoky/hexdeck-client/internal/logger"
	"github.com/palemoky/hexdeck-client/internal/network/client"
	"github.com/palemoky/hexdeck-client/internal/protocol"
	"github.com/palemoky/hexdeck-client/internal/state"
)

// Connect opens the realtime connection. Empty arguments are taken from the
// room state, then from the current stored credentials.
//
// Without a usable token and user id, or while a connection handle exists,
// Connect logs a warning and returns nil without doing anything. A handle
// survives a server-side disconnect; call Disconnect or LeaveRoom before
// connecting again.
func (m *Manager) Connect(ctx context.Context, sessionToken, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.room.Get()
	if sessionToken == "" {
		sessionToken = room.SessionToken
	}
	if userID == "" {
		userID = room.UserID
	}
	if sessionToken == "" || userID == "" {
		if rec, ok := m.creds.Current(ctx); ok && rec.Usable() {
			if sessionToken == "" {
				sessionToken = rec.SessionToken
			}
			if userID == "" {
				userID = rec.UserID
			}
		}
	}

	if m.conn != nil {
		logger.LogWarn("已有连接，拒绝新的连接请求 (session %s)", sessionToken)
		return nil
	}
	if sessionToken == "" || userID == "" {
		logger.LogWarn("没有可用的会话凭证，跳过连接")
		return nil
	}

	c := client.NewClient(m.wsURL, sessionToken)
	c.OnMessage = func(msg *protocol.Message) { m.dispatch(c, msg) }
	c.OnClose = func() { m.handleDisconnect(c) }
	c.OnError = func(err error) { m.handleError(c, err) }

	// 握手完成前读协程不会启动，握手后的消息要等 handleConnect 释放锁
	if err := c.Connect(ctx); err != nil {
		logger.LogError("连接服务器失败: %v", err)
		return fmt.Errorf("connect %s: %w", m.wsURL, err)
	}

	m.conn = c
	m.topCardSeen = false
	m.handleConnect(ctx, sessionToken, userID)
	return nil
}

// Disconnect closes and drops the connection handle. Credentials and room
// state are kept so Connect can resume the session.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropConnLocked()
}

// IsConnected reports whether the realtime connection is up.
func (m *Manager) IsConnected() bool {
	return m.room.Get().Connected
}

// dropConnLocked closes the handle and marks the room disconnected.
func (m *Manager) dropConnLocked() {
	if m.conn == nil {
		return
	}
	m.conn.Close()
	m.conn = nil
	m.room.Update(func(r state.Room) state.Room {
		r.Connected = false
		return r
	})
	m.recorder.SetConnected(false)
}

func (m *Manager) handleConnect(ctx context.Context, sessionToken, userID string) {
	logger.LogInfo("已连接到房间 (player %s)", userID)

	if err := m.creds.Save(ctx, sessionToken, userID, m.room.Get().JoinCode); err != nil {
		logger.LogError("保存会话凭证失败: %v", err)
	}
	m.location.Navigate(PathGame)
	m.room.Update(func(r state.Room) state.Room {
		r.Connected = true
		r.SessionToken = sessionToken
		r.UserID = userID
		return r
	})
	m.recorder.SetConnected(true)
}

func (m *Manager) handleDisconnect(c *client.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != c {
		return
	}

	logger.LogInfo("与服务器断开连接")
	m.room.Update(func(r state.Room) state.Room {
		r.Connected = false
		return r
	})
	m.recorder.SetConnected(false)
}

func (m *Manager) handleError(c *client.Client, err error) {
	m.mu.Lock()
	stale := m.conn != c
	m.mu.Unlock()
	if stale {
		return
	}
	logger.LogError("连接错误: %v", err)
}
