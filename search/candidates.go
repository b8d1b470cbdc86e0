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

// CandidateSearch executes recruiter-side candidate searches.
type CandidateSearch struct {
	engine  index.Engine
	store   storage.CandidateStore
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  *slog.Logger
}

// NewCandidateSearch creates a candidate search service.
func NewCandidateSearch(engine index.Engine, store storage.CandidateStore, opts ...Option) (*CandidateSearch, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	o := newOptions(opts...)
	return &CandidateSearch{
		engine:  engine,
		store:   store,
		breaker: newBreaker("candidate-search", o),
		timeout: o.timeout,
		logger:  o.logger,
	}, nil
}

// Search runs one candidate query with the same degradation contract as
// JobSearch.Search.
func (s *CandidateSearch) Search(ctx context.Context, query CandidateQuery) (*Page[CandidateView], error) {
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
		s.logger.Warn("candidate search degraded",
			"keyword", query.Keyword, "error", err)
		return &Page[CandidateView]{Items: []CandidateView{}, Page: page, PageSize: size, Degraded: true}, nil
	}
	result := res.(*index.Result)

	items, err := s.assemble(ctx, result.Hits)
	if err != nil {
		return nil, fmt.Errorf("assembling candidate results: %w", err)
	}

	return &Page[CandidateView]{
		Items:    items,
		Total:    result.Total,
		Page:     page,
		PageSize: size,
	}, nil
}

func (s *CandidateSearch) assemble(ctx context.Context, hits []index.Hit) ([]CandidateView, error) {
	items := make([]CandidateView, 0, len(hits))
	if len(hits) == 0 {
		return items, nil
	}

	ids := make([]core.ID, len(hits))
	for i, hit := range hits {
		ids[i] = hit.Id
	}
	candidates, err := s.store.GetByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	byId := make(map[core.ID]*core.Candidate, len(candidates))
	for _, candidate := range candidates {
		byId[candidate.Id] = candidate
	}

	for _, hit := range hits {
		candidate, ok := byId[hit.Id]
		if !ok || !candidate.Visible() {
			s.logger.Debug("dropping stale candidate hit", "id", hit.Id)
			continue
		}
		items = append(items, candidateView(candidate, hit.Score))
	}
	return items, nil
}
