//go:build !ci

package sound

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"github.com/palemoky/hexdeck-client/internal/logger"
)

const sampleRate = beep.SampleRate(44100)

type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// 按优先级尝试的扩展名
var decoders = []struct {
	ext    string
	decode decodeFunc
}{
	{".wav", func(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(r) }},
	{".mp3", mp3.Decode},
}

// SoundManager 播放 AllCues 中的提示音，音效文件为 <dir>/<cue>.wav 或 .mp3
type SoundManager struct {
	dir string

	mu      sync.RWMutex
	cues    map[string]*beep.Buffer
	enabled bool
}

func NewSoundManager(dir string) *SoundManager {
	return &SoundManager{
		dir:  dir,
		cues: make(map[string]*beep.Buffer, len(AllCues)),
	}
}

// Init 初始化扬声器并加载音效。缺失的音效只记录日志
func (sm *SoundManager) Init() error {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	var missing []string
	for _, cue := range AllCues {
		buf, err := sm.loadCue(cue)
		if err != nil {
			logger.LogWarn("音效 %s 不可用: %v", cue, err)
			missing = append(missing, cue)
			continue
		}
		sm.mu.Lock()
		sm.cues[cue] = buf
		sm.mu.Unlock()
	}
	if len(missing) == len(AllCues) {
		logger.LogInfo("%s 下没有音效文件，静音运行", sm.dir)
	}

	sm.mu.Lock()
	sm.enabled = true
	sm.mu.Unlock()
	return nil
}

func (sm *SoundManager) loadCue(cue string) (*beep.Buffer, error) {
	for _, d := range decoders {
		f, err := os.Open(filepath.Join(sm.dir, cue+d.ext))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		// decoder 负责关闭文件
		streamer, format, err := d.decode(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("decode %s%s: %w", cue, d.ext, err)
		}
		return bufferOf(streamer, format), nil
	}
	return nil, os.ErrNotExist
}

// bufferOf 把整段音频解码进内存，统一采样率
func bufferOf(streamer beep.StreamSeekCloser, format beep.Format) *beep.Buffer {
	defer func() { _ = streamer.Close() }()

	var s beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		s = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 4})
	buf.Append(s)
	return buf
}

// Play 播放音效，未加载或已关闭时忽略
func (sm *SoundManager) Play(cue string) {
	sm.mu.RLock()
	buf, ok := sm.cues[cue]
	enabled := sm.enabled
	sm.mu.RUnlock()
	if !enabled || !ok {
		return
	}
	speaker.Play(buf.Streamer(0, buf.Len()))
}

func (sm *SoundManager) Close() {
	sm.mu.Lock()
	sm.enabled = false
	sm.mu.Unlock()
}
