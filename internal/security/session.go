package security

import (
	"context"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	SessionName = "blogcms_session"
	userIDKey   = "user_id"
)

// Flash is a one-time notice shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore signs cookies with secret. An empty secret gets a random
// per-process key, so sessions do not survive a restart.
func NewSessionStore(secret []byte, maxAge time.Duration, secure bool) *SessionStore {
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(int(maxAge.Seconds()))
	return &SessionStore{store: store}
}

// session never fails: a cookie that no longer decodes yields a fresh session.
// Sessions are cached per request, so mutations below accumulate until Save.
func (s *SessionStore) session(r *http.Request) *sessions.Session {
	session, _ := s.store.Get(r, SessionName)
	return session
}

func (s *SessionStore) UserID(r *http.Request) (int64, bool) {
	id, ok := s.session(r).Values[userIDKey].(int64)
	return id, ok
}

func (s *SessionStore) SetUserID(r *http.Request, userID int64) {
	s.session(r).Values[userIDKey] = userID
}

// ClearUserID drops the user id but keeps the cookie so pending flashes survive.
func (s *SessionStore) ClearUserID(r *http.Request) {
	delete(s.session(r).Values, userIDKey)
}

func (s *SessionStore) AddFlash(r *http.Request, category, message string) {
	s.session(r).AddFlash(Flash{Category: category, Message: message})
}

// Save writes the session cookie. Call it before the response body is written.
func (s *SessionStore) Save(w http.ResponseWriter, r *http.Request) error {
	return s.session(r).Save(r, w)
}

// Flashes pops pending flashes and saves the session when anything was popped.
func (s *SessionStore) Flashes(w http.ResponseWriter, r *http.Request) ([]Flash, error) {
	session := s.session(r)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil, nil
	}

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes, session.Save(r, w)
}

type ctxKey int

const userKey ctxKey = 1

// WithUserID records the authenticated user on the request context.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userKey).(int64)
	return id, ok
}
