//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package server exposes teams over HTTP for debugging and testing.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trpc.group/trpc-go/trpc-agentchat/log"
	"trpc.group/trpc-go/trpc-agentchat/message"
	"trpc.group/trpc-go/trpc-agentchat/team"
)

const defaultShutdownTimeout = 10 * time.Second

// Server serves registered teams over HTTP.
type Server struct {
	teams  map[string]*team.Team
	router *mux.Router

	shutdownTimeout time.Duration
}

// Option configures the Server.
type Option func(*Server)

// WithShutdownTimeout sets how long Serve waits for in-flight requests
// on shutdown.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = timeout
	}
}

// New creates a Server for the given teams, keyed by team name.
func New(teams map[string]*team.Team, opts ...Option) *Server {
	s := &Server{
		teams:           teams,
		router:          mux.NewRouter(),
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	s.router.Use(c.Handler)
	s.registerRoutes()
	return s
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/teams", s.handleListTeams).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/runs", s.handleRun).Methods(http.MethodPost)
}

// Serve runs the server on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("server: listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTeams(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(s.teams))
	for name := range s.teams {
		names = append(names, name)
	}
	sort.Strings(names)
	writeJSON(w, http.StatusOK, map[string][]string{"teams": names})
}

// runRequest is the body of POST /v1/runs.
type runRequest struct {
	Team string `json:"team"`
	Task string `json:"task"`
}

// runResponse is the JSON transcript of a completed run.
type runResponse struct {
	Messages   []message.Envelope `json:"messages"`
	StopReason string             `json:"stop_reason"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.Task == "" {
		writeError(w, http.StatusBadRequest, errors.New("task is empty"))
		return
	}
	t, ok := s.teams[req.Team]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown team %q", req.Team))
		return
	}

	result, err := t.Run(r.Context(), req.Task)
	if err != nil {
		log.Errorf("server: run on %s failed: %v", req.Team, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, runResponse{
		Messages:   message.EncodeAll(result.Messages),
		StopReason: result.StopReason,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("server: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
