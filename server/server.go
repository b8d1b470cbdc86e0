// Copyright 2025 Hirelink
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package server exposes the search subsystem over HTTP: the two search
// endpoints for end users and the administrative reindex endpoints.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirelink/searchcore/reindex"
	"github.com/hirelink/searchcore/search"
)

// Server is the HTTP front of the search subsystem.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server

	jobs       *search.JobSearch
	candidates *search.CandidateSearch

	jobReindexer       *reindex.Orchestrator
	candidateReindexer *reindex.Orchestrator

	jobIncremental       *reindex.Incremental
	candidateIncremental *reindex.Incremental

	logger *slog.Logger
}

// New creates a server. Reindexer and incremental arguments may be nil;
// their endpoints then answer 503.
func New(addr string, jobs *search.JobSearch, candidates *search.CandidateSearch,
	jobReindexer, candidateReindexer *reindex.Orchestrator,
	jobIncremental, candidateIncremental *reindex.Incremental, logger *slog.Logger) *Server {

	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		jobs:                 jobs,
		candidates:           candidates,
		jobReindexer:         jobReindexer,
		candidateReindexer:   candidateReindexer,
		jobIncremental:       jobIncremental,
		candidateIncremental: candidateIncremental,
		logger:               logger,
	}

	gin.SetMode(gin.ReleaseMode)
	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.health)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/jobs/search", s.searchJobs)
		v1.POST("/candidates/search", s.searchCandidates)

		admin := v1.Group("/admin")
		{
			admin.POST("/reindex/jobs", s.reindexHandler(s.jobReindexer))
			admin.POST("/reindex/jobs/:id", s.reindexOneHandler(s.jobIncremental))
			admin.POST("/reindex/candidates", s.reindexHandler(s.candidateReindexer))
			admin.POST("/reindex/candidates/:id", s.reindexOneHandler(s.candidateIncremental))
		}
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting http server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping http server")
	return s.httpServer.Shutdown(ctx)
}
