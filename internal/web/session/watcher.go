package session

import (
	"sync"
)

// Session is the in-memory representation of the currently authenticated user.
// It exists only while a user is signed in and is replaced wholesale on every
// auth state change. Consumers hold read-only copies.
type Session struct {
	UserID        uint64
	Email         string
	DisplayName   string
	EmailVerified bool
}

// Watcher is the single source of truth for the current auth state.
// It holds at most one Session and starts in the loading state; the first
// delivered event, signed in or not, flips loading to false for good.
// Every change notifies all subscribers.
type Watcher struct {
	mu      sync.RWMutex
	current *Session
	loading bool
	nextID  uint64
	subs    map[uint64]func(*Session)
}

// NewWatcher creates a Watcher in the loading state with no session.
func NewWatcher() *Watcher {
	return &Watcher{
		loading: true,
		subs:    make(map[uint64]func(*Session)),
	}
}

// Subscribe registers fn to be called on every auth state change.
// fn receives the new session, or nil on sign-out. The returned function
// removes the subscription; call it on shutdown to avoid leaked callbacks.
func (w *Watcher) Subscribe(fn func(*Session)) (unsubscribe func()) {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
	}
}

// Set replaces the current session and notifies subscribers.
func (w *Watcher) Set(s *Session) {
	if s != nil {
		copied := *s
		s = &copied
	}

	w.publish(s)
}

// Clear drops the current session (sign-out or token invalidation)
// and notifies subscribers.
func (w *Watcher) Clear() {
	w.publish(nil)
}

// Current returns a copy of the current session, or nil when signed out.
func (w *Watcher) Current() *Session {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.current == nil {
		return nil
	}

	copied := *w.current
	return &copied
}

// IsLoading reports whether the first auth state event is still pending.
func (w *Watcher) IsLoading() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.loading
}

func (w *Watcher) publish(s *Session) {
	w.mu.Lock()
	w.current = s
	w.loading = false

	fns := make([]func(*Session), 0, len(w.subs))
	for _, fn := range w.subs {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	// notify outside the lock so a subscriber may read back the state
	for _, fn := range fns {
		fn(s)
	}
}
