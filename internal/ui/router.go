package ui

import (
	"sync"

	"github.com/palemoky/hexdeck-client/internal/session"
)

// Router is the session's Location: it remembers the current view and wakes
// the program when it changes.
type Router struct {
	mu     sync.Mutex
	path   string
	notify chan struct{}
}

func NewRouter() *Router {
	return &Router{path: session.PathRoot, notify: make(chan struct{}, 1)}
}

func (r *Router) Navigate(path string) {
	r.mu.Lock()
	r.path = path
	r.mu.Unlock()
	r.wake()
}

// Path returns the current view path.
func (r *Router) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// wake signals the listener without blocking.
func (r *Router) wake() {
	select {
	case r.notify <- struct{}{}:
	default:
	}
}
