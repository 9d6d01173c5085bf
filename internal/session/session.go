package session

import (
	"sync"
	"time"
)

// WindowSize bounds how many conversation turns are kept per session and
// therefore how much context is sent to the chat provider.
const WindowSize = 5

// Turn is a single user or assistant message in the rolling chat window.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Session is the server-side state behind one browser cookie. A session is
// either authenticated (logged in with a user ID), a guest, or neither, in
// which case the chat and pose routes reject it. Concurrent requests can
// share one session, so all mutable state is guarded by the mutex.
type Session struct {
	ID string

	mu       sync.Mutex
	loggedIn bool
	guest    bool
	userID   int64
	username string
	window   []Turn

	expiresAt time.Time
}

// SetAuthenticated marks the session as logged in for the given account,
// clearing any guest marker.
func (s *Session) SetAuthenticated(userID int64, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = true
	s.guest = false
	s.userID = userID
	s.username = username
}

// SetGuest grants guest access, clearing any authenticated marker. The
// stored identity is kept, matching the behavior of skipping login from a
// logged-in session.
func (s *Session) SetGuest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guest = true
	s.loggedIn = false
}

func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

func (s *Session) Guest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guest
}

func (s *Session) UserID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// Member reports whether the session may use the chat route.
func (s *Session) Member() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn || s.guest
}

// Append pushes a turn onto the window and drops the oldest entries so that
// at most WindowSize turns remain.
func (s *Session) Append(turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = append(s.window, turn)
	if len(s.window) > WindowSize {
		s.window = s.window[len(s.window)-WindowSize:]
	}
}

// Window returns a copy of the current turns, oldest first.
func (s *Session) Window() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.window))
	copy(out, s.window)
	return out
}

// Reset clears the window. Used by "new chat".
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = nil
}

func (s *Session) touch(ttl time.Duration) {
	s.mu.Lock()
	s.expiresAt = time.Now().Add(ttl)
	s.mu.Unlock()
}

func (s *Session) expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.After(s.expiresAt)
}
