package session

import "sync"

// 视图路径
const (
	PathRoot = "/"     // 大厅
	PathGame = "/Game" // 房间内
)

// Location is the view the front-end shows. The manager moves it on connect,
// leave and supersession. Navigate must not call back into the Manager.
type Location interface {
	Navigate(path string)
}

// MemoryLocation records the current path and every navigation.
type MemoryLocation struct {
	mu      sync.Mutex
	path    string
	history []string
}

// NewMemoryLocation starts at PathRoot.
func NewMemoryLocation() *MemoryLocation {
	return &MemoryLocation{path: PathRoot}
}

func (l *MemoryLocation) Navigate(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.path = path
	l.history = append(l.history, path)
}

// Path returns the current path.
func (l *MemoryLocation) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// History returns every path navigated to, oldest first.
func (l *MemoryLocation) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.history...)
}
