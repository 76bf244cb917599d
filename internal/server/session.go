package server

import (
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/protplot/protplot/internal/gff"
	"github.com/protplot/protplot/internal/palette"
)

// sessionCookie is the name of the session identifier cookie.
const sessionCookie = "protplot_session"

// Session holds one browser session's state: the parsed file and the
// color assignment. Colors persist across reselection for the lifetime
// of the session; nothing is ever written to disk.
type Session struct {
	ID       string
	FileName string
	Result   *gff.Result
	Colors   *palette.Assignment

	mu sync.Mutex
}

// Lock serializes handler access to the session. HTTP handlers run
// concurrently; each session is single-threaded by this lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// SessionStore is the in-memory session registry.
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	newPolicy func() palette.Policy
}

// NewSessionStore creates a store whose sessions start with the given
// color policy.
func NewSessionStore(newPolicy func() palette.Policy) *SessionStore {
	return &SessionStore{
		sessions:  make(map[string]*Session),
		newPolicy: newPolicy,
	}
}

// Get returns the session for id.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Create registers a new session with a fresh random identifier.
func (st *SessionStore) Create() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	s := &Session{
		ID:     newSessionID(),
		Colors: palette.NewAssignment(st.newPolicy()),
	}
	st.sessions[s.ID] = s
	return s
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
