package utils

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "session"
	userKey     = "user"
)

// SessionManager keeps the logged-in username and pending notices in a
// signed cookie. Each method saves the cookie at most once per call, so a
// handler should use a single mutating method per request.
type SessionManager struct {
	store *sessions.CookieStore
}

func NewSessionManager(secret string, secure bool) *SessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 24 * 7, // 7 days
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

// session returns the request's session. A cookie that fails verification
// yields a fresh, empty session.
func (m *SessionManager) session(r *http.Request) *sessions.Session {
	s, _ := m.store.Get(r, sessionName)
	return s
}

// User returns the session's username, if any.
func (m *SessionManager) User(r *http.Request) (string, bool) {
	user, ok := m.session(r).Values[userKey].(string)
	return user, ok && user != ""
}

// SetUser stores user in the session along with an optional notice.
func (m *SessionManager) SetUser(w http.ResponseWriter, r *http.Request, user string, notice string) error {
	s := m.session(r)
	s.Values[userKey] = user
	if notice != "" {
		s.AddFlash(notice)
	}
	return s.Save(r, w)
}

// Clear removes the user from the session along with an optional notice.
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request, notice string) error {
	s := m.session(r)
	delete(s.Values, userKey)
	if notice != "" {
		s.AddFlash(notice)
	}
	return s.Save(r, w)
}

// Notify queues a one-shot notice for the next rendered page.
func (m *SessionManager) Notify(w http.ResponseWriter, r *http.Request, notice string) error {
	s := m.session(r)
	s.AddFlash(notice)
	return s.Save(r, w)
}

// Notices pops the pending notices.
func (m *SessionManager) Notices(w http.ResponseWriter, r *http.Request) ([]string, error) {
	s := m.session(r)
	flashes := s.Flashes()
	if len(flashes) == 0 {
		return nil, nil
	}
	notices := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if msg, ok := f.(string); ok {
			notices = append(notices, msg)
		}
	}
	return notices, s.Save(r, w)
}

// GetUserAgent returns the User-Agent string from the request
func GetUserAgent(r *http.Request) string {
	return r.Header.Get("User-Agent")
}

// GetIP returns the IP address of the client from the request
func GetIP(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}
