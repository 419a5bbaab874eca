package sound

import (
	"github.com/palemoky/hexdeck-client/internal/protocol"
	"github.com/palemoky/hexdeck-client/internal/state"
)

// 音效名，对应音效目录中的文件名
const (
	CueCardPlayed = "card_played"
	CueYourTurn   = "your_turn"
	CueGameStart  = "game_start"
	CueGameOver   = "game_over"
)

// AllCues 按加载顺序列出所有音效
var AllCues = []string{CueGameStart, CueCardPlayed, CueYourTurn, CueGameOver}

// Cues returns the sounds to play for the change from prev to next.
func Cues(prev, next state.Room) []string {
	var cues []string

	if prev.GameState != protocol.GameStateRunning && next.GameState == protocol.GameStateRunning {
		cues = append(cues, CueGameStart)
	}
	if len(next.PlayedCards) > len(prev.PlayedCards) {
		// 种子牌不是任何人打出的
		if last, ok := next.TopCard(); ok && last.CardIndex != state.TopCardIndex {
			cues = append(cues, CueCardPlayed)
		}
	}
	if !prev.IsMyTurn() && next.IsMyTurn() {
		cues = append(cues, CueYourTurn)
	}
	if prev.GameState != protocol.GameStateEnded && next.GameState == protocol.GameStateEnded {
		cues = append(cues, CueGameOver)
	}
	return cues
}
