// Package server exposes the resolution engine over HTTP: the staged
// journaling pipeline, direct per-capability endpoints, and engine
// statistics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mindmirror-ai/mindmirror/internal/config"
	"github.com/mindmirror-ai/mindmirror/internal/resolve"
)

// maxBodyBytes caps request bodies. Audio uploads arrive base64-encoded
// in JSON, so the cap is generous.
const maxBodyBytes = 10 << 20

// Server is the MindMirror HTTP front end.
type Server struct {
	engine *Engine
	http   *http.Server
	log    zerolog.Logger
}

// New creates the server with its routes mounted.
func New(cfg *config.Config, engine *Engine, log zerolog.Logger) *Server {
	s := &Server{
		engine: engine,
		log:    log.With().Str("component", "server").Logger(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout.Duration))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/reflect", s.handleReflect)
		r.Post("/emotion", s.handleCapability(resolve.CapabilityEmotion))
		r.Post("/reflection", s.handleCapability(resolve.CapabilityReflection))
		r.Post("/art", s.handleCapability(resolve.CapabilityArt))
		r.Post("/transcribe", s.handleCapability(resolve.CapabilityTranscription))
		r.Post("/speech", s.handleCapability(resolve.CapabilitySpeech))
		r.Get("/stats", s.handleStats)
	})

	s.http = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start begins serving. It blocks until the listener fails or Shutdown
// is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

type reflectRequest struct {
	Text    string            `json:"text"`
	Context map[string]string `json:"context,omitempty"`
}

type capabilityRequest struct {
	Input   string            `json:"input"`
	Context map[string]string `json:"context,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "mindmirror-ai",
	})
}

// handleReflect runs the full pipeline for one journal entry. The
// pipeline never fails; this endpoint only rejects malformed requests.
func (s *Server) handleReflect(w http.ResponseWriter, r *http.Request) {
	var req reflectRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	result := s.engine.Pipeline.Run(r.Context(), req.Text, req.Context)
	s.respond(w, http.StatusOK, result)
}

// handleCapability resolves one capability directly, outside the staged
// pipeline.
func (s *Server) handleCapability(capability resolve.Capability) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req capabilityRequest
		if err := s.decode(r, &req); err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Input == "" {
			s.respondError(w, http.StatusBadRequest, "input is required")
			return
		}

		result := s.engine.Resolvers[capability].Resolve(r.Context(), resolve.Request{
			RawInput:   req.Input,
			Capability: capability,
			Context:    req.Context,
		})
		s.respond(w, http.StatusOK, result)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.engine.Stats.Collect())
}

func (s *Server) decode(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("write response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respond(w, status, map[string]string{"error": message})
}

// logRequests emits one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
