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


package reindex

import (
	"context"
	"errors"
	"fmt"

	"github.com/hirelink/searchcore/core"
	"github.com/hirelink/searchcore/index"
	"github.com/hirelink/searchcore/search"
	"github.com/hirelink/searchcore/storage"
)

// Source streams index documents for one entity type. It hides the
// entity model from the reindex machinery, which only moves documents.
type Source interface {
	// Name identifies the entity type in logs and errors.
	Name() string

	// Documents streams the documents of every currently-visible entity
	// in batches of batchSize. Iteration stops on the first error from fn.
	Documents(ctx context.Context, batchSize int, fn func([]*index.Document) error) error

	// Document reads one entity fresh from the store. visible is false
	// when the entity is gone or should not be indexed; the caller turns
	// that into an index delete.
	Document(ctx context.Context, id core.ID) (doc *index.Document, visible bool, err error)
}

type jobSource struct {
	store storage.JobStore
}

// NewJobSource adapts a job store into a document source.
func NewJobSource(store storage.JobStore) Source {
	return &jobSource{store: store}
}

func (s *jobSource) Name() string { return "jobs" }

func (s *jobSource) Documents(ctx context.Context, batchSize int, fn func([]*index.Document) error) error {
	return s.store.GetAllVisible(ctx, batchSize, func(jobs []*core.Job) error {
		docs := make([]*index.Document, len(jobs))
		for i, job := range jobs {
			docs[i] = search.JobDocument(job)
		}
		return fn(docs)
	})
}

func (s *jobSource) Document(ctx context.Context, id core.ID) (*index.Document, bool, error) {
	job, err := s.store.GetForIndexing(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading job %d: %w", id, err)
	}
	if !job.Visible() {
		return nil, false, nil
	}
	return search.JobDocument(job), true, nil
}

type candidateSource struct {
	store storage.CandidateStore
}

// NewCandidateSource adapts a candidate store into a document source.
func NewCandidateSource(store storage.CandidateStore) Source {
	return &candidateSource{store: store}
}

func (s *candidateSource) Name() string { return "candidates" }

func (s *candidateSource) Documents(ctx context.Context, batchSize int, fn func([]*index.Document) error) error {
	return s.store.GetAllVisible(ctx, batchSize, func(candidates []*core.Candidate) error {
		docs := make([]*index.Document, len(candidates))
		for i, candidate := range candidates {
			docs[i] = search.CandidateDocument(candidate)
		}
		return fn(docs)
	})
}

func (s *candidateSource) Document(ctx context.Context, id core.ID) (*index.Document, bool, error) {
	candidate, err := s.store.GetForIndexing(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading candidate %d: %w", id, err)
	}
	if !candidate.Visible() {
		return nil, false, nil
	}
	return search.CandidateDocument(candidate), true, nil
}
