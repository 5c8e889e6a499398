package catalog

import (
	"context"
	"sync"
	"time"
)

// Session pairs a page with the inbox its notifications land in.
type Session struct {
	Page  *Page
	Inbox *Inbox

	lastSeen time.Time
}

// Sessions keeps one page per viewer key (chat id, cookie).
type Sessions[K comparable] struct {
	store RecipeStore
	opts  []Option
	now   func() time.Time

	mu    sync.Mutex
	pages map[K]*Session
}

func NewSessions[K comparable](store RecipeStore, opts ...Option) *Sessions[K] {
	return &Sessions[K]{
		store: store,
		opts:  opts,
		now:   time.Now,
		pages: make(map[K]*Session),
	}
}

// Get returns the session for key, creating it and loading its list on first use.
func (s *Sessions[K]) Get(ctx context.Context, key K) *Session {
	s.mu.Lock()
	sess, ok := s.pages[key]
	if !ok {
		inbox := NewInbox()
		opts := append(append([]Option{}, s.opts...), WithNotifier(inbox))
		sess = &Session{Page: NewPage(s.store, opts...), Inbox: inbox}
		s.pages[key] = sess
	}
	sess.lastSeen = s.now()
	s.mu.Unlock()

	sess.Page.Mount(ctx)
	return sess
}

// Peek returns the session without creating one.
func (s *Sessions[K]) Peek(key K) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.pages[key]
	return sess, ok
}

func (s *Sessions[K]) Forget(key K) {
	s.mu.Lock()
	delete(s.pages, key)
	s.mu.Unlock()
}

func (s *Sessions[K]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// Sweep drops sessions idle for longer than maxIdle and returns their keys.
func (s *Sessions[K]) Sweep(maxIdle time.Duration) []K {
	cutoff := s.now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()
	var gone []K
	for k, sess := range s.pages {
		if sess.lastSeen.Before(cutoff) {
			delete(s.pages, k)
			gone = append(gone, k)
		}
	}
	return gone
}
