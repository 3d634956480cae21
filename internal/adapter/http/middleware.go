package adapthttp

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"opsdash/internal/session"
)

type contextKey string

const (
	sessionContextKey  contextKey = "session"
	identityContextKey contextKey = "identity"
)

// sessionFromContext returns the session attached by withSession, if any.
func sessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}

// identityFromContext returns the authenticated user name, if any.
func identityFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(identityContextKey).(string)
	return name, ok
}

// withSession resolves the session cookie on every request. Requests
// without a usable session proceed sessionless; only a store failure is
// terminal, since it cannot be told apart from a valid session we failed
// to read.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value, ok := s.cookies.ReadValue(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := s.sessions.Load(r.Context(), value)
		if errors.Is(err, session.ErrMalformedCookie) {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			s.log.Error("session load failed", "error", err)
			writeJSON(w, http.StatusInternalServerError,
				map[string]any{"error": "Internal Server Error"})
			return
		}
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		if name, ok := sess.Identity(); ok {
			ctx = context.WithValue(ctx, identityContextKey, name)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireUser gates a handler on a session that carries an identity. A
// session without the login marker is as anonymous as no session at all.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identityFromContext(r.Context()); !ok {
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireToken gates a handler on a bearer token. The token is the last
// whitespace-separated field of the Authorization header, so both
// "Bearer <token>" and "Token <token>" forms work. A header without a
// scheme is rejected before the registry is consulted.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeUnauthorized(w)
			return
		}
		fields := strings.Fields(header)
		if len(fields) < 2 {
			writeUnauthorized(w)
			return
		}
		token := fields[len(fields)-1]

		ok, err := s.tokens.Check(r.Context(), token)
		if err != nil {
			s.log.Error("token check failed", "error", err)
			writeUnauthorized(w)
			return
		}
		if !ok {
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"id", uuid.NewString(),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
