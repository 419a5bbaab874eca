package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/palemoky/hexdeck-client/internal/api"
	"github.com/palemoky/hexdeck-client/internal/protocol"
	"github.com/palemoky/hexdeck-client/internal/session"
	"github.com/palemoky/hexdeck-client/internal/state"
)

const maxCardLabel = 24

func (m *Model) View() string {
	if m.path == session.PathGame {
		return docStyle.Render(m.roomView())
	}
	return docStyle.Render(m.lobbyView())
}

// --- 大厅 ---

func (m *Model) lobbyView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle("HexDeck"))
	sb.WriteString("\n")

	if stats := m.lobby.Stats; stats != nil {
		sb.WriteString(hintStyle.Render(fmt.Sprintf("🌐 在线 %d · 进行中 %d · 已完成 %d",
			stats.OnlinePlayerCount, stats.RunningGames, stats.TotalGamesPlayed)))
		sb.WriteString("\n")
	}

	switch m.lobby.Loading {
	case state.LoadingCreate:
		sb.WriteString("\n正在创建房间...\n")
	case state.LoadingJoin:
		sb.WriteString("\n正在加入房间...\n")
	}

	if m.lobby.CreateError != "" {
		sb.WriteString(errorStyle.Render("创建失败: " + errorText(m.lobby.CreateError)))
		sb.WriteString("\n")
	}
	if m.lobby.JoinError != "" {
		sb.WriteString(errorStyle.Render("加入失败: " + errorText(m.lobby.JoinError)))
		sb.WriteString("\n")
	}
	if m.err != "" {
		sb.WriteString(errorStyle.Render(m.err))
		sb.WriteString("\n")
	}

	switch rejoin := m.lobby.Rejoin; rejoin.Kind {
	case state.RejoinSession:
		sb.WriteString(fmt.Sprintf("\n可以回到房间 %s (按 r)\n", formatJoinCode(rejoin.JoinCode)))
	case state.RejoinJoinCode:
		sb.WriteString(fmt.Sprintf("\n房间 %s 仍在进行，可以重新加入 (按 r)\n", formatJoinCode(rejoin.JoinCode)))
	}

	if m.joining {
		sb.WriteString(promptStyle.Render(m.input.View()))
		sb.WriteString("\n")
		sb.WriteString(hintStyle.Render("enter 加入 · esc 取消"))
		return sb.String()
	}

	sb.WriteString(promptStyle.Render(hintStyle.Render("c 创建房间 · j 加入房间 · r 重新加入 · q 退出")))
	return sb.String()
}

// errorText 将错误标记转换为提示文字，服务器消息原样显示
func errorText(flag string) string {
	switch api.Category(flag) {
	case api.CategoryTimeout:
		return "服务器无响应"
	case api.CategoryNoRoomFound:
		return "房间不存在"
	case api.CategoryRequestFailed:
		return "请求失败"
	}
	return flag
}

// --- 房间 ---

func (m *Model) roomView() string {
	room := m.room
	var sb strings.Builder

	header := fmt.Sprintf("房间 %s · %s", formatJoinCode(room.JoinCode), room.GameState)
	sb.WriteString(titleStyle(header))
	if !room.Connected {
		sb.WriteString(errorStyle.Render("  (连接已断开)"))
	}
	sb.WriteString("\n\n")

	sb.WriteString(boxStyle.Render(renderPlayers(room)))
	sb.WriteString("\n")

	if top, ok := room.TopCard(); ok {
		sb.WriteString(fmt.Sprintf("桌面: %s\n", cardLabel(top.Card)))
	}
	if room.GameState == protocol.GameStateEnded && room.Winner != "" {
		winner := room.Winner
		if p, ok := room.Player(room.Winner); ok {
			winner = p.Username
		}
		sb.WriteString(titleStyle("🏆 胜者: " + winner))
		sb.WriteString("\n")
	}

	if len(room.Hand) > 0 {
		sb.WriteString("\n手牌:\n")
		sb.WriteString(renderHand(room.Hand))
	}

	if status, ok := lastStatus(room); ok && status.IsError {
		sb.WriteString(errorStyle.Render("⚠️ " + status.Message))
		sb.WriteString("\n")
	}

	sb.WriteString(promptStyle.Render(hintStyle.Render("s 开始 · d 摸牌 · 1-9 出牌 · l 离开 · q 退出")))
	return sb.String()
}

// renderPlayers 玩家列表
func renderPlayers(room state.Room) string {
	if len(room.Players) == 0 {
		return hintStyle.Render("等待玩家...")
	}

	lines := make([]string, 0, len(room.Players))
	for _, p := range room.Players {
		icon := PlayerIcon
		if p.Permissions.IsHost() {
			icon = HostIcon
		}

		line := fmt.Sprintf("%s %s", icon, p.Username)
		if p.PlayerID == room.UserID {
			line = selfStyle.Render(line + " (你)")
		}

		if ps, ok := room.PlayerState(p.PlayerID); ok {
			line += fmt.Sprintf(" · %d 张", ps.NumCards)
			if ps.Active {
				line = TurnIcon + line
			}
		}
		if !p.IsConnected {
			line += " " + OfflineIcon
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderHand 手牌列表，可出的牌高亮
func renderHand(hand []protocol.OwnCard) string {
	var sb strings.Builder
	for i, c := range hand {
		label := fmt.Sprintf("%d. %s", i+1, cardLabel(c.Card))
		if c.CanPlay {
			label = playableStyle.Render(label)
		}
		sb.WriteString(label)
		sb.WriteString("\n")
	}
	return sb.String()
}

// cardLabel 卡牌内容由卡组定义，这里只显示压缩后的 JSON
func cardLabel(c protocol.Card) string {
	if protocol.IsEmptyCard(c) {
		return "—"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, c); err != nil {
		return "?"
	}
	runes := []rune(buf.String())
	if len(runes) > maxCardLabel {
		return string(runes[:maxCardLabel-1]) + "…"
	}
	return string(runes)
}

// formatJoinCode AB12CD34 -> AB12-CD34
func formatJoinCode(code string) string {
	if len(code) != 8 {
		return code
	}
	return code[:4] + "-" + code[4:]
}

func lastStatus(room state.Room) (protocol.StatusPayload, bool) {
	for i := len(room.Messages) - 1; i >= 0; i-- {
		msg := room.Messages[i]
		if msg.Type != protocol.MsgStatus {
			continue
		}
		var status protocol.StatusPayload
		if err := json.Unmarshal(msg.Payload, &status); err != nil {
			return status, false
		}
		return status, true
	}
	return protocol.StatusPayload{}, false
}
