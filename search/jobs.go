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


package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/hirelink/searchcore/core"
	"github.com/hirelink/searchcore/index"
	"github.com/hirelink/searchcore/storage"
)

// JobSearch executes end-user job searches against the job index and
// rehydrates the hits from the relational store.
type JobSearch struct {
	engine  index.Engine
	store   storage.JobStore
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  *slog.Logger
}

// NewJobSearch creates a job search service.
func NewJobSearch(engine index.Engine, store storage.JobStore, opts ...Option) (*JobSearch, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	o := newOptions(opts...)
	return &JobSearch{
		engine:  engine,
		store:   store,
		breaker: newBreaker("job-search", o),
		timeout: o.timeout,
		logger:  o.logger,
	}, nil
}

// Search runs one job query. Index failures yield an empty degraded
// page; only query timeouts and store failures surface as errors.
func (s *JobSearch) Search(ctx context.Context, query JobQuery) (*Page[JobView], error) {
	page, size := normalizePage(query.Page, query.PageSize)
	criteria := query.Criteria()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.engine.Search(ctx, criteria)
	})
	if err != nil {
		if errors.Is(err, index.ErrQueryTimeout) {
			return nil, err
		}
		s.logger.Warn("job search degraded",
			"keyword", query.Keyword, "error", err)
		return &Page[JobView]{Items: []JobView{}, Page: page, PageSize: size, Degraded: true}, nil
	}
	result := res.(*index.Result)

	items, err := s.assemble(ctx, result.Hits)
	if err != nil {
		return nil, fmt.Errorf("assembling job results: %w", err)
	}

	return &Page[JobView]{
		Items:    items,
		Total:    result.Total,
		Page:     page,
		PageSize: size,
	}, nil
}

// assemble walks the ranked hits in index order, keeping only ids the
// store still has and still considers visible. Stale index entries are
// silently dropped; the follow-up incremental delete will catch up.
func (s *JobSearch) assemble(ctx context.Context, hits []index.Hit) ([]JobView, error) {
	items := make([]JobView, 0, len(hits))
	if len(hits) == 0 {
		return items, nil
	}

	ids := make([]core.ID, len(hits))
	for i, hit := range hits {
		ids[i] = hit.Id
	}
	jobs, err := s.store.GetByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	byId := make(map[core.ID]*core.Job, len(jobs))
	for _, job := range jobs {
		byId[job.Id] = job
	}

	for _, hit := range hits {
		job, ok := byId[hit.Id]
		if !ok || !job.Visible() {
			s.logger.Debug("dropping stale job hit", "id", hit.Id)
			continue
		}
		items = append(items, jobView(job, hit.Score))
	}
	return items, nil
}
