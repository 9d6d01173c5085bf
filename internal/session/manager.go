package session

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"sync"
	"time"
)

// CookieName identifies the session cookie.
const CookieName = "session_id"

// Manager holds all live sessions in memory, keyed by an opaque random ID
// carried in a cookie. Sessions expire after ttl of inactivity; a cleanup
// goroutine sweeps expired entries.
type Manager struct {
	store sync.Map // session ID -> *Session
	ttl   time.Duration
}

func NewManager(ttl time.Duration) *Manager {
	m := &Manager{ttl: ttl}
	go m.startCleanup()
	return m
}

// Create allocates a fresh anonymous session and registers it.
func (m *Manager) Create() (*Session, error) {
	idBytes := make([]byte, 32)
	if _, err := rand.Read(idBytes); err != nil {
		return nil, err
	}
	sess := &Session{ID: base64.URLEncoding.EncodeToString(idBytes)}
	sess.touch(m.ttl)
	m.store.Store(sess.ID, sess)
	return sess, nil
}

// Get returns the live session for id, refreshing its expiry. Expired or
// unknown IDs return nil.
func (m *Manager) Get(id string) *Session {
	val, ok := m.store.Load(id)
	if !ok {
		return nil
	}
	sess := val.(*Session)
	if sess.expired(time.Now()) {
		m.store.Delete(id)
		return nil
	}
	sess.touch(m.ttl)
	return sess
}

// Destroy removes the session in one step, clearing auth markers, identity
// and the chat window together.
func (m *Manager) Destroy(id string) {
	m.store.Delete(id)
}

// FromRequest resolves the request's session from its cookie, or creates a
// new one and sets the cookie on the response.
func (m *Manager) FromRequest(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if sess := m.Get(cookie.Value); sess != nil {
			return sess, nil
		}
	}

	sess, err := m.Create()
	if err != nil {
		return nil, err
	}
	m.SetCookie(w, sess.ID)
	return sess, nil
}

func (m *Manager) SetCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
	})
}

// ClearCookie expires the session cookie on the client.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func (m *Manager) startCleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		m.store.Range(func(key, val interface{}) bool {
			if val.(*Session).expired(now) {
				m.store.Delete(key)
			}
			return true
		})
	}
}
