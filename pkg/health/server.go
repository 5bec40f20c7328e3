package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"seoul-store-crawler/pkg/logging"
	"seoul-store-crawler/pkg/metrics"

	"github.com/gorilla/mux"
)

// Server exposes the health endpoints over HTTP.
type Server struct {
	manager *Manager
	server  *http.Server
	log     *logging.ComponentLogger
}

func NewServer(manager *Manager, addr string, log *logging.Logger) *Server {
	s := &Server{
		manager: manager,
		log:     log.WithComponent("health_server"),
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/health/live", s.handleLiveness).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", s.handleReadiness).Methods(http.MethodGet)
	r.HandleFunc("/health/components", s.handleComponents).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

func (s *Server) Start() {
	s.log.Info("starting health server", logging.String("addr", s.server.Addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("health server error", err)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("stopping health server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.manager.CheckAll(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if health.Status == StatusUnhealthy || health.Status == StatusUnknown {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(health)
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now(),
		"uptime":    s.manager.uptime().String(),
	})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	health := s.manager.CheckAll(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if health.Status == StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     health.Status,
		"ready":      health.Status != StatusUnhealthy,
		"timestamp":  health.Timestamp,
		"components": len(health.Components),
	})
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	var health SystemHealth
	if r.URL.Query().Get("cached") == "true" {
		health = s.manager.Cached()
	} else {
		health = s.manager.CheckAll(r.Context())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"components": health.Components,
		"timestamp":  health.Timestamp,
	})
}
