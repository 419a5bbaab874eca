//go:build ci

package sound

// SoundManager 在 CI 环境下不播放任何声音
type SoundManager struct{}

func NewSoundManager(string) *SoundManager {
	return &SoundManager{}
}

func (sm *SoundManager) Init() error {
	return nil
}

func (sm *SoundManager) Play(string) {}

func (sm *SoundManager) Close() {}
