// Package statusserver implements the optional, read-only localhost
// status endpoint (SPEC_FULL.md §2/§6): it serves the driver's status
// snapshot file as JSON and never participates in the coordinator/worker
// filesystem protocol. Disabled unless --status-addr is set.
package statusserver

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
)

// Server serves the contents of statusPath at GET /status.
type Server struct {
	statusPath string
	router     chi.Router
}

// New builds a Server that reads statusPath on every request.
func New(statusPath string) *Server {
	s := &Server{statusPath: statusPath, router: chi.NewRouter()}
	s.router.Get("/status", s.handleStatus)
	return s
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.statusPath)
	if err != nil {
		http.Error(w, "status not available yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// ListenAndServe blocks serving on addr (e.g. "127.0.0.1:7171").
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.router)
}
