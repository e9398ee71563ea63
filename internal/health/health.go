package health

import (
	"net/http"
	"sync/atomic"
)

// State tracks process readiness: healthz is unconditional, readyz flips
// once the configuration validated and the monitor loop has started.
type State struct {
	ready atomic.Bool
}

// SetReady marks the process ready.
func (s *State) SetReady() {
	s.ready.Store(true)
}

// Healthz returns 200 "ok\n" unconditionally.
func (s *State) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// Readyz returns 200 "ready\n" once the monitor is running, 503 before.
func (s *State) Readyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if !s.ready.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("starting\n"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready\n"))
}
