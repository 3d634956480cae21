package adapthttp

import (
	"errors"
	"net/http"

	"opsdash/internal/app"
)

// handleLogin authenticates a username/password pair and issues the session
// cookie. Rejected credentials answer 200 with a result envelope rather
// than 401; the status code alone does not reveal whether a name exists.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"result":  "error",
			"message": "invalid request",
		})
		return
	}

	cookieValue, user, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, app.ErrInvalidCredentials) {
		writeJSON(w, http.StatusOK, map[string]any{
			"result":  "error",
			"message": "invalid username or password",
		})
		return
	}
	if err != nil {
		s.log.Error("login failed", "error", err)
		writeJSON(w, http.StatusOK, map[string]any{
			"result":  "error",
			"message": "internal error",
		})
		return
	}

	if err := s.cookies.Write(w, cookieValue); err != nil {
		s.log.Error("session cookie encode failed", "error", err)
		writeJSON(w, http.StatusOK, map[string]any{
			"result":  "error",
			"message": "internal error",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result": "ok",
		"user":   user,
	})
}

// handleLogout destroys the current session, if any, and expires the
// cookie. Logging out without a session still answers ok.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), sessionFromContext(r.Context())); err != nil {
		s.log.Error("logout failed", "error", err)
	}
	s.cookies.Clear(w)
	writeJSON(w, http.StatusOK, map[string]any{"result": "ok"})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	name, _ := identityFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user": name})
}
