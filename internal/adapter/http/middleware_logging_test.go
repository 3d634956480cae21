package adapthttp

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"opsdash/internal/session"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	s := &Server{log: slog.New(slog.NewTextHandler(&buf, nil))}

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("OK"))
	})
	handler := s.loggingMiddleware(nextHandler)

	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status %d, got %d", http.StatusTeapot, w.Code)
	}

	logOutput := buf.String()
	if !strings.Contains(logOutput, "GET") || !strings.Contains(logOutput, "/test-path") || !strings.Contains(logOutput, "418") {
		t.Errorf("Log output missing expected fields. Got: %s", logOutput)
	}
}

type failingStore struct {
	err error
}

func (f *failingStore) Load(ctx context.Context, cookieValue string) (*session.Session, error) {
	return nil, f.err
}
func (f *failingStore) Store(ctx context.Context, sess *session.Session) (string, error) {
	return "", f.err
}
func (f *failingStore) Destroy(ctx context.Context, sess *session.Session) error { return f.err }
func (f *failingStore) Clear(ctx context.Context) error                          { return f.err }

// A store failure is not an anonymous request: the middleware must stop
// rather than let a possibly valid session pass as logged out.
func TestWithSessionStoreFailureIsTerminal(t *testing.T) {
	secret := bytes.Repeat([]byte{0x42}, 64)
	codec := NewCookieCodec("opsdash_session", secret)
	s := &Server{
		sessions: &failingStore{err: errors.New("disk on fire")},
		cookies:  codec,
		log:      slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil)),
	}

	sess, err := session.New()
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	setter := httptest.NewRecorder()
	if err := codec.Write(setter, sess.CookieValue()); err != nil {
		t.Fatalf("encode cookie: %v", err)
	}

	called := false
	handler := s.withSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("GET", "/api/session", nil)
	req.AddCookie(setter.Result().Cookies()[0])
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if called {
		t.Fatal("handler must not run on a store failure")
	}
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"error":"Internal Server Error"}` {
		t.Fatalf("unexpected body: %s", got)
	}
}
