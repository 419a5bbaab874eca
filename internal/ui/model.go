// Package ui is the terminal front-end. It only reads session state and
// calls session intents; all game logic lives on the server.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/hexdeck-client/internal/logger"
	"github.com/palemoky/hexdeck-client/internal/session"
	"github.com/palemoky/hexdeck-client/internal/sound"
	"github.com/palemoky/hexdeck-client/internal/state"
)

// Sounds plays named cues. *sound.SoundManager implements it.
type Sounds interface {
	Play(name string)
}

// stateChangedMsg carries a snapshot taken after a store or route change.
type stateChangedMsg struct {
	path  string
	room  state.Room
	lobby state.Lobby
}

// actionDoneMsg 后台操作（创建/加入/重新加入）完成
type actionDoneMsg struct {
	err error
}

// Model 终端界面的 model
type Model struct {
	session *session.Manager
	router  *Router
	sounds  Sounds

	unsubscribe []func()

	path  string
	room  state.Room
	lobby state.Lobby

	input   textinput.Model
	joining bool // 正在输入房间号
	err     string
	width   int
	height  int
}

// NewModel creates the model. router must be the Location the session
// navigates with.
func NewModel(sess *session.Manager, router *Router, sounds Sounds) *Model {
	ti := textinput.New()
	ti.Placeholder = "输入房间号..."
	ti.CharLimit = 12
	ti.Width = 20

	return &Model{
		session: sess,
		router:  router,
		sounds:  sounds,
		path:    router.Path(),
		room:    sess.Room().Get(),
		lobby:   sess.Lobby().Get(),
		input:   ti,
	}
}

func (m *Model) Init() tea.Cmd {
	wake := func() { m.router.wake() }
	m.unsubscribe = append(m.unsubscribe,
		m.session.Room().Subscribe(func(state.Room) { wake() }),
		m.session.Lobby().Subscribe(func(state.Lobby) { wake() }),
	)

	return tea.Batch(
		m.listen(),
		m.refreshStats(),
		textinput.Blink,
	)
}

// Close stops listening to the session stores.
func (m *Model) Close() {
	for _, unsubscribe := range m.unsubscribe {
		unsubscribe()
	}
	m.unsubscribe = nil
}

// listen 等待状态变化
func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		<-m.router.notify
		return stateChangedMsg{
			path:  m.router.Path(),
			room:  m.session.Room().Get(),
			lobby: m.session.Lobby().Get(),
		}
	}
}

func (m *Model) refreshStats() tea.Cmd {
	return func() tea.Msg {
		_ = m.session.RefreshStats(context.Background())
		return nil
	}
}

// run 在后台执行会阻塞的会话操作
func (m *Model) run(fn func(context.Context) error) tea.Cmd {
	m.err = ""
	return func() tea.Msg {
		return actionDoneMsg{err: fn(context.Background())}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case stateChangedMsg:
		m.applyState(msg)
		return m, m.listen()

	case actionDoneMsg:
		if msg.err != nil {
			logger.LogWarn("操作失败: %v", msg.err)
			// 创建/加入失败已经体现在 lobby 的错误标记里
			if m.lobby.JoinError == "" && m.lobby.CreateError == "" {
				m.err = msg.err.Error()
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) applyState(msg stateChangedMsg) {
	for _, cue := range sound.Cues(m.room, msg.room) {
		m.sounds.Play(cue)
	}
	if msg.path != m.path {
		m.err = ""
	}
	m.path = msg.path
	m.room = msg.room
	m.lobby = msg.lobby
}
