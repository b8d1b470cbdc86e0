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


// Package searchcore wires the search subsystem of the recruitment
// platform: a SQLite store as the source of truth, two badger-backed
// inverted indexes (jobs and candidates), the query services in front
// of them, and the reindex machinery that keeps index and store in sync.
package searchcore

import (
	"io"
	"log/slog"

	"github.com/hirelink/searchcore/config"
	"github.com/hirelink/searchcore/index"
	indexbadger "github.com/hirelink/searchcore/index/badger"
	"github.com/hirelink/searchcore/reindex"
	"github.com/hirelink/searchcore/search"
	"github.com/hirelink/searchcore/storage"
	"github.com/hirelink/searchcore/storage/sqlite"
)

const (
	jobNamespace       = "jobs"
	candidateNamespace = "candidates"
)

// Platform owns every component of the search subsystem and tears them
// down in reverse order of construction.
type Platform struct {
	cfg     *config.Config
	store   *sqlite.Store
	backend *indexbadger.Backend

	jobIndex       *indexbadger.Index
	candidateIndex *indexbadger.Index

	jobIncremental       *reindex.Incremental
	candidateIncremental *reindex.Incremental

	logger *slog.Logger
}

// PlatformOption configures a Platform.
type PlatformOption func(*platformOptions)

type platformOptions struct {
	logger *slog.Logger
}

// WithPlatformLogger sets the logger for platform lifecycle events.
func WithPlatformLogger(logger *slog.Logger) PlatformOption {
	return func(o *platformOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewPlatform opens the store and both indexes per cfg. On any failure
// everything opened so far is closed again.
func NewPlatform(cfg *config.Config, opts ...PlatformOption) (*Platform, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	options := &platformOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	store, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}

	backend, err := indexbadger.OpenBackend(cfg.Index.Dir, cfg.Index.InMemory,
		indexbadger.WithBackendLogger(options.logger))
	if err != nil {
		store.Close()
		return nil, err
	}

	jobIndex, err := indexbadger.NewIndex(backend, jobNamespace,
		index.NewAnalyzer(cfg.Index.JobWeights))
	if err != nil {
		backend.Close()
		store.Close()
		return nil, err
	}

	candidateIndex, err := indexbadger.NewIndex(backend, candidateNamespace,
		index.NewAnalyzer(cfg.Index.CandidateWeights))
	if err != nil {
		backend.Close()
		store.Close()
		return nil, err
	}

	jobIncremental, err := reindex.NewIncremental(jobIndex,
		reindex.NewJobSource(store.Jobs()), cfg.ReindexConfig())
	if err != nil {
		backend.Close()
		store.Close()
		return nil, err
	}

	candidateIncremental, err := reindex.NewIncremental(candidateIndex,
		reindex.NewCandidateSource(store.Candidates()), cfg.ReindexConfig())
	if err != nil {
		jobIncremental.Close()
		backend.Close()
		store.Close()
		return nil, err
	}

	return &Platform{
		cfg:                  cfg,
		store:                store,
		backend:              backend,
		jobIndex:             jobIndex,
		candidateIndex:       candidateIndex,
		jobIncremental:       jobIncremental,
		candidateIncremental: candidateIncremental,
		logger:               options.logger,
	}, nil
}

// Close releases every component. Safe to call once.
func (p *Platform) Close() error {
	if err := p.jobIncremental.Close(); err != nil {
		p.logger.Error("error closing job incremental indexer", "err", err)
	}
	if err := p.candidateIncremental.Close(); err != nil {
		p.logger.Error("error closing candidate incremental indexer", "err", err)
	}
	if err := p.backend.Close(); err != nil {
		p.logger.Error("error closing index backend", "err", err)
		return err
	}
	if err := p.store.Close(); err != nil {
		p.logger.Error("error closing store", "err", err)
		return err
	}
	return nil
}

// Jobs returns the relational job store.
func (p *Platform) Jobs() storage.JobStore {
	return p.store.Jobs()
}

// Candidates returns the relational candidate store.
func (p *Platform) Candidates() storage.CandidateStore {
	return p.store.Candidates()
}

// JobIndex returns the job index.
func (p *Platform) JobIndex() index.Index {
	return p.jobIndex
}

// CandidateIndex returns the candidate index.
func (p *Platform) CandidateIndex() index.Index {
	return p.candidateIndex
}

// JobIncremental returns the post-commit hook target for job changes.
func (p *Platform) JobIncremental() *reindex.Incremental {
	return p.jobIncremental
}

// CandidateIncremental returns the post-commit hook target for
// candidate changes.
func (p *Platform) CandidateIncremental() *reindex.Incremental {
	return p.candidateIncremental
}

// NewJobSearch builds the end-user job search service.
func (p *Platform) NewJobSearch(opts ...search.Option) (*search.JobSearch, error) {
	opts = append([]search.Option{
		search.WithTimeout(p.cfg.SearchTimeout()),
		search.WithLogger(p.logger),
	}, opts...)
	return search.NewJobSearch(p.jobIndex, p.store.Jobs(), opts...)
}

// NewCandidateSearch builds the recruiter-side candidate search service.
func (p *Platform) NewCandidateSearch(opts ...search.Option) (*search.CandidateSearch, error) {
	opts = append([]search.Option{
		search.WithTimeout(p.cfg.SearchTimeout()),
		search.WithLogger(p.logger),
	}, opts...)
	return search.NewCandidateSearch(p.candidateIndex, p.store.Candidates(), opts...)
}

// NewJobReindexer builds the full-rebuild orchestrator for the job index.
func (p *Platform) NewJobReindexer(progress io.Writer) (*reindex.Orchestrator, error) {
	return reindex.NewOrchestrator(p.jobIndex,
		reindex.NewJobSource(p.store.Jobs()), p.cfg.ReindexConfig(), progress)
}

// NewCandidateReindexer builds the full-rebuild orchestrator for the
// candidate index.
func (p *Platform) NewCandidateReindexer(progress io.Writer) (*reindex.Orchestrator, error) {
	return reindex.NewOrchestrator(p.candidateIndex,
		reindex.NewCandidateSource(p.store.Candidates()), p.cfg.ReindexConfig(), progress)
}
