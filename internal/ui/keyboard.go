package ui

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/hexdeck-client/internal/session"
	"github.com/palemoky/hexdeck-client/internal/state"
)

// handleKeyPress 按当前视图分发按键
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.joining {
		return m.handleJoinInput(msg)
	}
	if m.path == session.PathGame {
		return m.handleRoomKey(msg)
	}
	return m.handleLobbyKey(msg)
}

func (m *Model) handleJoinInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		code := strings.TrimSpace(m.input.Value())
		m.stopJoining()
		if code == "" {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) error {
			return m.session.JoinRoom(ctx, code)
		})
	case tea.KeyEsc:
		m.stopJoining()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stopJoining() {
	m.joining = false
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) handleLobbyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.lobby.Loading != state.LoadingNone {
		return m, nil
	}

	switch msg.String() {
	case "c":
		return m, m.run(m.session.CreateRoom)
	case "j":
		m.joining = true
		return m, m.input.Focus()
	case "r":
		if m.lobby.Rejoin.Kind == state.RejoinNone {
			return m, nil
		}
		return m, m.run(m.session.Rejoin)
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleRoomKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "s":
		m.session.StartGame()
	case "d":
		m.session.DrawCard()
	case "l":
		m.session.LeaveRoom(context.Background())
		return m, m.refreshStats()
	case "q", "esc":
		return m, tea.Quit
	default:
		// 数字键 1-9 打出对应手牌
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 && n <= len(m.room.Hand) {
			m.session.PlayCard(n-1, nil)
		}
	}
	return m, nil
}
