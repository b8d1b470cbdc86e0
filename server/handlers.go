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


package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hirelink/searchcore/core"
	"github.com/hirelink/searchcore/index"
	"github.com/hirelink/searchcore/reindex"
	"github.com/hirelink/searchcore/search"
)

type errorResponse struct {
	Error string `json:"error"`
}

type reindexResponse struct {
	Indexed   int   `json:"indexed"`
	Skipped   int   `json:"skipped"`
	Failed    int   `json:"failed"`
	ElapsedMs int64 `json:"elapsed_ms"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) searchJobs(c *gin.Context) {
	var query search.JobQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	page, err := s.jobs.Search(c.Request.Context(), query)
	if err != nil {
		s.searchError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) searchCandidates(c *gin.Context) {
	var query search.CandidateQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	page, err := s.candidates.Search(c.Request.Context(), query)
	if err != nil {
		s.searchError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) searchError(c *gin.Context, err error) {
	if errors.Is(err, index.ErrQueryTimeout) {
		c.JSON(http.StatusGatewayTimeout, errorResponse{Error: "query timed out"})
		return
	}
	s.logger.Error("search request failed", "path", c.FullPath(), "err", err)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

// reindexHandler runs a full rebuild synchronously and reports the
// outcome. A rebuild already in flight answers 409 so the caller can
// back off instead of stacking rebuilds.
func (s *Server) reindexHandler(orchestrator *reindex.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if orchestrator == nil {
			c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "reindexing not configured"})
			return
		}

		report, err := orchestrator.Run(c.Request.Context())
		if err != nil {
			if errors.Is(err, reindex.ErrReindexInProgress) {
				c.JSON(http.StatusConflict, errorResponse{Error: "reindex already in progress"})
				return
			}
			s.logger.Error("reindex failed", "path", c.FullPath(), "err", err)
			c.JSON(http.StatusInternalServerError, errorResponse{Error: "reindex failed"})
			return
		}

		c.JSON(http.StatusOK, reindexResponse{
			Indexed:   report.Indexed,
			Skipped:   report.Skipped,
			Failed:    len(report.Failed),
			ElapsedMs: report.Elapsed.Milliseconds(),
		})
	}
}

// reindexOneHandler resyncs a single entity with its index. The store's
// current row decides between upsert and delete, so a missing or
// invisible entity is purged rather than answered with 404.
func (s *Server) reindexOneHandler(incremental *reindex.Incremental) gin.HandlerFunc {
	return func(c *gin.Context) {
		if incremental == nil {
			c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "reindexing not configured"})
			return
		}

		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id"})
			return
		}

		if err := incremental.Index(c.Request.Context(), core.ID(id)); err != nil {
			s.logger.Error("single-entity reindex failed", "path", c.FullPath(), "id", id, "err", err)
			c.JSON(http.StatusInternalServerError, errorResponse{Error: "reindex failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "id": id})
	}
}
