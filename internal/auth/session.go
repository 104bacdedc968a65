package auth

import (
	"context"
	"sync"

	"github.com/storeville/buyer-gateway/internal/snapshot"
)

// Session is a passive holder for the opaque bearer token. It never decides
// what a 401 means; that policy lives with the callers (checkout, handlers).
type Session struct {
	mu     sync.Mutex
	token  string
	key    string
	writer *snapshot.Writer
}

// Restore loads any persisted token. Absence is a normal logged-out state.
func Restore(ctx context.Context, key string, snaps snapshot.Store, writer *snapshot.Writer) *Session {
	s := &Session{key: key, writer: writer}
	if b, err := snaps.Load(ctx, key); err == nil {
		s.token = string(b)
	}
	return s
}

func (s *Session) Login(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if s.writer != nil {
		s.writer.Enqueue(s.key, []byte(token))
	}
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if s.writer != nil {
		s.writer.Enqueue(s.key, nil) // nil = delete persisted token
	}
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}
