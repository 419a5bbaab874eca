package session

import (
	"context"

	"github.com/palemoky/hexdeck-client/internal/api"
	"github.com/palemoky/hexdeck-client/internal/logger"
	"github.com/palemoky/hexdeck-client/internal/state"
)

// CreateRoom creates a room as host and connects to it. Failures are
// reported in Lobby.CreateError as well as returned.
func (m *Manager) CreateRoom(ctx context.Context) error {
	m.lobby.Update(func(l state.Lobby) state.Lobby {
		l.Loading = state.LoadingCreate
		l.CreateError = ""
		return l
	})

	reply, err := m.api.CreateRoom(ctx, m.username)
	if err == nil {
		err = m.Connect(ctx, reply.SessionToken, reply.PlayerID)
	}
	if err != nil {
		logger.LogWarn("创建房间失败: %v", err)
	}

	m.lobby.Update(func(l state.Lobby) state.Lobby {
		l.Loading = state.LoadingNone
		if err != nil {
			l.CreateError = api.UserMessage(err)
		}
		return l
	})
	return err
}

// JoinRoom joins the room with joinCode and connects to it. Failures are
// reported in Lobby.JoinError as well as returned.
func (m *Manager) JoinRoom(ctx context.Context, joinCode string) error {
	m.lobby.Update(func(l state.Lobby) state.Lobby {
		l.Loading = state.LoadingJoin
		l.JoinError = ""
		return l
	})

	reply, err := m.api.JoinRoom(ctx, joinCode, m.username)
	if err == nil {
		err = m.Connect(ctx, reply.SessionToken, reply.PlayerID)
	}
	if err != nil {
		logger.LogWarn("加入房间 %s 失败: %v", joinCode, err)
	}

	m.lobby.Update(func(l state.Lobby) state.Lobby {
		l.Loading = state.LoadingNone
		if err != nil {
			l.JoinError = api.UserMessage(err)
		}
		return l
	})
	return err
}

// LeaveRoom closes the connection, tells the server in the background
// (best effort), clears credentials and room state and goes back to the
// lobby. The local effects happen whether or not the server is reachable.
func (m *Manager) LeaveRoom(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessionToken := m.room.Get().SessionToken
	if sessionToken == "" {
		if rec, ok := m.creds.Current(ctx); ok {
			sessionToken = rec.SessionToken
		}
	}

	m.dropConnLocked()
	m.topCardSeen = false

	if sessionToken != "" {
		m.bg.Add(1)
		go m.notifyLeave(sessionToken)
	}

	if err := m.creds.Clear(ctx); err != nil {
		logger.LogError("清除会话凭证失败: %v", err)
	}
	m.room.Set(state.InitialRoom())
	m.lobby.Update(func(l state.Lobby) state.Lobby {
		l.Rejoin = state.Rejoin{}
		return l
	})
	m.recorder.SetConnected(false)
	m.location.Navigate(PathRoot)
}

func (m *Manager) notifyLeave(sessionToken string) {
	defer m.bg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), m.api.Timeout())
	defer cancel()
	if err := m.api.LeaveRoom(ctx, sessionToken); err != nil {
		logger.LogDebug("离开房间通知失败 (忽略): %v", err)
	}
}
