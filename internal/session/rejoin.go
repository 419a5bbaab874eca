package session

import (
	"context"

	"github.com/palemoky/hexdeck-client/internal/logger"
	"github.com/palemoky/hexdeck-client/internal/state"
)

// CheckSessionData decides which rejoin option the lobby offers. Candidates
// are tried in order: current session token, current join code, last
// session token, last join code. The first one the server confirms wins.
func (m *Manager) CheckSessionData(ctx context.Context) state.Rejoin {
	current, _ := m.creds.Current(ctx)
	last, _ := m.creds.Last(ctx)

	rejoin := state.Rejoin{Kind: state.RejoinNone}
	switch {
	case m.api.CheckSession(ctx, current.SessionToken):
		rejoin = state.Rejoin{
			Kind:         state.RejoinSession,
			SessionToken: current.SessionToken,
			UserID:       current.UserID,
			JoinCode:     current.JoinCode,
		}
	case m.api.CheckJoinCode(ctx, current.JoinCode):
		rejoin = state.Rejoin{Kind: state.RejoinJoinCode, JoinCode: current.JoinCode}
	case m.api.CheckSession(ctx, last.SessionToken):
		rejoin = state.Rejoin{
			Kind:         state.RejoinSession,
			SessionToken: last.SessionToken,
			UserID:       last.UserID,
			JoinCode:     last.JoinCode,
		}
	case m.api.CheckJoinCode(ctx, last.JoinCode):
		rejoin = state.Rejoin{Kind: state.RejoinJoinCode, JoinCode: last.JoinCode}
	}

	logger.LogInfo("重新加入检查结果: %+v", rejoin)
	m.lobby.Update(func(l state.Lobby) state.Lobby {
		l.Rejoin = rejoin
		return l
	})
	return rejoin
}

// Rejoin acts on the offer found by CheckSessionData: reconnect with the
// session, or join again by code.
func (m *Manager) Rejoin(ctx context.Context) error {
	rejoin := m.lobby.Get().Rejoin
	switch rejoin.Kind {
	case state.RejoinSession:
		return m.Connect(ctx, rejoin.SessionToken, rejoin.UserID)
	case state.RejoinJoinCode:
		return m.JoinRoom(ctx, rejoin.JoinCode)
	}
	return nil
}

// RefreshStats loads the server counters into the lobby.
func (m *Manager) RefreshStats(ctx context.Context) error {
	stats, err := m.api.Stats(ctx)
	if err != nil {
		logger.LogWarn("获取服务器统计失败: %v", err)
		return err
	}
	m.lobby.Update(func(l state.Lobby) state.Lobby {
		l.Stats = &state.Stats{
			TotalGamesPlayed:  stats.TotalGamesPlayed,
			RunningGames:      stats.RunningGames,
			OnlinePlayerCount: stats.OnlinePlayerCount,
		}
		return l
	})
	return nil
}
