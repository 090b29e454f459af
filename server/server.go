// Package server exposes the translation pipeline as an HTTP + WebSocket job
// service. Jobs run in the background with bounded concurrency; clients poll
// job snapshots over REST or subscribe to live progress over WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	ppttranslator "github.com/engchina/No.1-PPT-Translator"
	"github.com/engchina/No.1-PPT-Translator/logging"
	"github.com/gorilla/websocket"
)

const (
	// DefaultAddr is the listen address used when Config.Addr is empty.
	DefaultAddr = ":8080"

	// DefaultMaxJobs caps concurrently running pipelines when
	// Config.MaxJobs is zero. Each job holds a document in memory and
	// streams provider calls, so the default is deliberately small.
	DefaultMaxJobs = 2
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The service is meant to sit behind a trusted reverse proxy or on
	// localhost, so cross-origin subscriptions are allowed.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Config carries the job service settings.
type Config struct {
	// Addr is the listen address, for example ":8080".
	Addr string

	// MaxJobs bounds how many translation pipelines run at once.
	MaxJobs int

	// DefaultModel is used for jobs created without a model.
	DefaultModel string

	// DefaultLanguage is used for jobs created without a target language.
	DefaultLanguage string

	// Base is the pipeline configuration shared by all jobs. Its Observer
	// field is ignored; each job installs itself as the observer.
	Base ppttranslator.PipelineConfig
}

// Server is the HTTP + WebSocket job service.
type Server struct {
	cfg     Config
	manager *JobManager
	httpSrv *http.Server
}

// New creates a Server from cfg, applying defaults for empty fields.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxJobs < 1 {
		cfg.MaxJobs = DefaultMaxJobs
	}

	s := &Server{
		cfg:     cfg,
		manager: NewJobManager(cfg.Base, cfg.MaxJobs, cfg.DefaultModel, cfg.DefaultLanguage),
	}
	s.httpSrv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the service's HTTP handler, usable directly in tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/jobs", s.handleCreateJob)
	mux.HandleFunc("GET /api/v1/jobs/{id}", s.handleGetJob)
	mux.HandleFunc("POST /api/v1/jobs/{id}/stop", s.handleStopJob)
	mux.HandleFunc("GET /api/v1/jobs/{id}/events", s.handleJobEvents)
	mux.HandleFunc("GET /api/v1/models", s.handleModels)
	mux.HandleFunc("GET /health", s.handleHealth)
	return logging.Middleware(mux)
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	logging.Info("job service listening", "addr", s.cfg.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown flags all running jobs to stop and shuts the HTTP server down.
func (s *Server) Shutdown(ctx context.Context) error {
	s.manager.StopAll()
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InputPath == "" {
		respondError(w, http.StatusBadRequest, "input_path is required")
		return
	}

	job := s.manager.Create(req)
	respondJSON(w, http.StatusAccepted, map[string]string{"id": job.ID})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.manager.Get(r.PathValue("id"))
	if !ok {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	respondJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleStopJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.manager.Get(r.PathValue("id"))
	if !ok {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	job.Stop()
	logging.JobEvent(job.ID, "stop_requested")
	respondJSON(w, http.StatusAccepted, job.Snapshot())
}

// handleJobEvents upgrades the connection and subscribes it to the job's
// event hub. The current state is queued for the new subscriber before it
// registers, so late joiners immediately learn how far the job has come.
func (s *Server) handleJobEvents(w http.ResponseWriter, r *http.Request) {
	job, ok := s.manager.Get(r.PathValue("id"))
	if !ok {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logging.Warn("websocket upgrade failed", "job_id", job.ID, "error", err)
		return
	}

	c := &client{hub: job.hub, conn: conn, send: make(chan []byte, sendBuffer)}
	if data, ok := marshalEvent(job.stateEvent()); ok {
		c.send <- data
	}
	job.hub.register <- c

	go c.writePump()
	go c.readPump()
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"models":           ppttranslator.SupportedModels,
		"languages":        ppttranslator.SupportedLanguages,
		"default_model":    s.manager.defaultModel,
		"default_language": s.manager.defaultLanguage,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
