// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"log/slog"
	"net/http"

	"opsdash/internal/app"
	"opsdash/internal/domain"
	"opsdash/internal/session"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth     *app.AuthService
	services *app.ServiceDirectory
	sessions session.Store
	tokens   domain.TokenRegistry
	cookies  *CookieCodec
	log      *slog.Logger
	webDir   string
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, services *app.ServiceDirectory, sessions session.Store,
	tokens domain.TokenRegistry, cookies *CookieCodec, log *slog.Logger, webDir string) *Server {
	return &Server{
		auth:     auth,
		services: services,
		sessions: sessions,
		tokens:   tokens,
		cookies:  cookies,
		log:      log,
		webDir:   webDir,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	api.Handle("/session", s.requireUser(http.HandlerFunc(s.handleSession)))
	api.Handle("/services", s.requireUser(http.HandlerFunc(s.handleServices)))
	api.Handle("/services/by-server", s.requireUser(http.HandlerFunc(s.handleServicesByServer)))

	ext := http.NewServeMux()
	ext.HandleFunc("/services", s.handleExtServices)

	root := http.NewServeMux()
	root.HandleFunc("/auth/login", s.handleLogin)
	root.HandleFunc("/auth/logout", s.handleLogout)
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/ext/", s.requireToken(http.StripPrefix("/ext", ext)))
	root.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(s.withSession(root))
}
