package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"sync"
)

// Session is the per-browser state the bridge keeps between the inbound
// DiscourseConnect redirect and the proof submission.
type Session struct {
	Nonce     string
	ReturnURL string
	User      string
}

var ErrNoSession = errors.New("no session")

// Store is an in-memory cookie session store. Each browser session is owned
// by one request at a time; the map lock only protects the map itself.
type Store struct {
	mu         sync.RWMutex
	sessions   map[string]Session
	cookieName string
	secure     bool
}

func NewStore(cookieName string, secure bool) *Store {
	if cookieName == "" {
		cookieName = "sid"
	}
	return &Store{
		sessions:   make(map[string]Session),
		cookieName: cookieName,
		secure:     secure,
	}
}

// Current returns the session bound to the request's cookie, if any.
func (s *Store) Current(r *http.Request) (string, Session, error) {
	c, _ := r.Cookie(s.cookieName)
	if c == nil {
		return "", Session{}, ErrNoSession
	}

	s.mu.RLock()
	sess, ok := s.sessions[c.Value]
	s.mu.RUnlock()

	if !ok {
		return "", Session{}, ErrNoSession
	}
	return c.Value, sess, nil
}

// Ensure returns the request's session, creating one (and setting the
// cookie) when none exists yet.
func (s *Store) Ensure(w http.ResponseWriter, r *http.Request) (string, Session) {
	if sid, sess, err := s.Current(r); err == nil {
		return sid, sess
	}

	sid := NewNonce(32)
	s.mu.Lock()
	s.sessions[sid] = Session{}
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sid, Session{}
}

// Put replaces the stored session record.
func (s *Store) Put(sid string, sess Session) {
	s.mu.Lock()
	s.sessions[sid] = sess
	s.mu.Unlock()
}

// NewNonce returns n random bytes as lowercase hex, from crypto/rand.
func NewNonce(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
