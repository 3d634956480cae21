package adapthttp

import "net/http"

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.services.List(r.Context())
	if err != nil {
		s.log.Error("list services failed", "error", err)
		writeJSON(w, http.StatusInternalServerError,
			map[string]any{"error": "Internal Server Error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result":   "ok",
		"services": services,
	})
}

func (s *Server) handleServicesByServer(w http.ResponseWriter, r *http.Request) {
	services, err := s.services.ByServer(r.Context())
	if err != nil {
		s.log.Error("list services failed", "error", err)
		writeJSON(w, http.StatusInternalServerError,
			map[string]any{"error": "Internal Server Error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result":   "ok",
		"services": services,
	})
}

// handleExtServices is the token-gated listing for external automation.
func (s *Server) handleExtServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.services.ListAll(r.Context())
	if err != nil {
		s.log.Error("list services failed", "error", err)
		writeJSON(w, http.StatusInternalServerError,
			map[string]any{"error": "Internal Server Error"})
		return
	}
	writeJSON(w, http.StatusOK, services)
}
