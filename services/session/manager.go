package session

import (
	"context"
	"net/http"
	"time"

	"github.com/MarcGrol/shopcart/lib/mycontext"
	"github.com/MarcGrol/shopcart/lib/myerrors"
	"github.com/MarcGrol/shopcart/lib/myhttp"
	"github.com/MarcGrol/shopcart/lib/mylog"
	"github.com/MarcGrol/shopcart/lib/mystore"
	"github.com/MarcGrol/shopcart/lib/mytime"
	"github.com/MarcGrol/shopcart/lib/myuuid"
)

const (
	DefaultCookieName = "sessionid"
	DefaultMaxAge     = 14 * 24 * time.Hour
)

type Config struct {
	CookieName string
	MaxAge     time.Duration
	// Secure forces the Secure cookie attribute; without it the attribute follows the request scheme
	Secure bool
}

type Manager struct {
	sessionStore mystore.Store[Record]
	nower        mytime.Nower
	uuider       myuuid.UUIDer
	logger       mylog.Logger
	config       Config
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewManager(store mystore.Store[Record], nower mytime.Nower, uuider myuuid.UUIDer, config Config) *Manager {
	if config.CookieName == "" {
		config.CookieName = DefaultCookieName
	}
	if config.MaxAge <= 0 {
		config.MaxAge = DefaultMaxAge
	}
	return &Manager{
		sessionStore: store,
		nower:        nower,
		uuider:       uuider,
		logger:       mylog.New("session"),
		config:       config,
	}
}

// Load returns the visitor's session, or a fresh one when the cookie is
// missing, unknown, expired or unreadable. A fresh session is not stored until
// it gets modified.
func (m *Manager) Load(c context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.config.CookieName)
	if err != nil || cookie.Value == "" {
		return m.create(c), nil
	}

	record, found, err := m.sessionStore.Get(c, cookie.Value)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}
	if !found {
		m.logger.Log(c, cookie.Value, mylog.SeverityInfo, "Session %s not found", cookie.Value)
		return m.create(c), nil
	}

	if m.nower.Now().Sub(record.LastModified) > m.config.MaxAge {
		m.logger.Log(c, record.UID, mylog.SeverityInfo, "Session %s expired (last modified %s)", record.UID, record.LastModified)
		err = m.sessionStore.Delete(c, record.UID)
		if err != nil {
			return nil, myerrors.NewInternalError(err)
		}
		return m.create(c), nil
	}

	s, err := fromRecord(record)
	if err != nil {
		m.logger.Log(c, record.UID, mylog.SeverityWarn, "Discarding unreadable session: %s", err)
		return m.create(c), nil
	}

	return s, nil
}

func (m *Manager) create(c context.Context) *Session {
	s := New(m.uuider.Create(), m.nower.Now())
	m.logger.Log(c, s.UID, mylog.SeverityInfo, "Created session %s", s.UID)
	return s
}

// Save persists a modified session and (re)issues its cookie. Clean sessions are left untouched.
func (m *Manager) Save(c context.Context, w http.ResponseWriter, r *http.Request, s *Session) error {
	if !s.Modified() {
		return nil
	}

	s.LastModified = m.nower.Now()

	record, err := s.toRecord()
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	err = m.sessionStore.Put(c, s.UID, record)
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    s.UID,
		Path:     "/",
		MaxAge:   int(m.config.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.config.Secure || myhttp.IsSecure(r),
		SameSite: http.SameSiteLaxMode,
	})

	s.modified = false

	m.logger.Log(c, s.UID, mylog.SeverityDebug, "Saved session %s", s.UID)

	return nil
}

// Middleware makes the visitor's session available through FromContext and
// persists it before the response headers go out.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(m.logger)

		s, err := m.Load(c, r)
		if err != nil {
			errorWriter.WriteError(c, w, 10, err)
			return
		}

		sw := &sessionResponseWriter{
			ResponseWriter: w,
			c:              c,
			r:              r,
			manager:        m,
			session:        s,
		}
		next.ServeHTTP(sw, r.WithContext(NewContext(r.Context(), s)))

		// handler may not have written anything
		sw.commit()
	})
}

type sessionResponseWriter struct {
	http.ResponseWriter
	c         context.Context
	r         *http.Request
	manager   *Manager
	session   *Session
	committed bool
	failed    bool
}

func (w *sessionResponseWriter) commit() bool {
	if w.committed {
		return !w.failed
	}
	w.committed = true

	err := w.manager.Save(w.c, w.ResponseWriter, w.r, w.session)
	if err != nil {
		w.failed = true
		// Drop what the handler prepared: it assumed the session would be stored
		w.Header().Del("Location")
		myhttp.NewWriter(w.manager.logger).WriteError(w.c, w.ResponseWriter, 11, err)
		return false
	}
	return true
}

func (w *sessionResponseWriter) WriteHeader(statusCode int) {
	if !w.commit() {
		return
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *sessionResponseWriter) Write(b []byte) (int, error) {
	if !w.commit() {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}
