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
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/hirelink/searchcore/index"
)

// Config holds configuration for reindexing operations.
type Config struct {
	// BatchSize is the number of entities streamed per store read
	BatchSize int

	// Workers is the size of the indexing worker pool
	Workers int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for a queued
	// incremental update
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// RetryMaxDelay caps the backoff growth; 0 leaves it uncapped
	RetryMaxDelay time.Duration

	// QueueSize bounds the incremental retry queue
	QueueSize int
}

// Backoff returns the retry policy for queued incremental updates.
func (c *Config) Backoff() Backoff {
	return Backoff{
		MaxAttempts: c.MaxRetries,
		BaseDelay:   c.RetryDelay,
		MaxDelay:    c.RetryMaxDelay,
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      200,
		Workers:        4,
		ReportInterval: 500,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		RetryMaxDelay:  30 * time.Second,
		QueueSize:      1024,
	}
}

// Report summarizes one full rebuild.
type Report struct {
	Indexed int
	Skipped int
	Failed  []index.BatchFailure
	Elapsed time.Duration
}

// Orchestrator rebuilds one index from its source. At most one rebuild
// per orchestrator runs at a time; concurrent requests are rejected
// with ErrReindexInProgress rather than queued, because two interleaved
// rebuilds would corrupt each other's clear-then-fill sequence.
type Orchestrator struct {
	writer   index.Writer
	source   Source
	config   *Config
	progress io.Writer
	running  atomic.Bool
}

// NewOrchestrator creates an orchestrator for one index.
// progress: where to write progress output (typically os.Stderr)
func NewOrchestrator(writer index.Writer, source Source, config *Config, progress io.Writer) (*Orchestrator, error) {
	if writer == nil {
		return nil, ErrWriterRequired
	}
	if source == nil {
		return nil, ErrSourceRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Orchestrator{
		writer:   writer,
		source:   source,
		config:   config,
		progress: progress,
	}, nil
}

// Running reports whether a rebuild is currently in flight.
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

// Run executes a full rebuild: clear the index, then stream every
// visible entity back in through the worker pool. Cancellation is
// honored at batch boundaries; a cancelled run leaves a partial index
// behind and must be re-run.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	if !o.running.CompareAndSwap(false, true) {
		return nil, ErrReindexInProgress
	}
	defer o.running.Store(false)

	fmt.Fprintf(o.progress, "Rebuilding %s index (batch size: %d, workers: %d)\n",
		o.source.Name(), o.config.BatchSize, o.config.Workers)

	if err := o.writer.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clearing %s index: %w", o.source.Name(), err)
	}

	pool, err := ants.NewPool(o.config.Workers)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	tracker := NewProgressTracker(o.progress, o.config.ReportInterval)
	tracker.Start()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report Report
		runErr error
	)

	streamErr := o.source.Documents(ctx, o.config.BatchSize, func(docs []*index.Document) error {
		mu.Lock()
		failed := runErr
		mu.Unlock()
		if failed != nil {
			return failed
		}

		batch := docs
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			batchReport, err := o.writer.UpsertMany(ctx, batch)
			tracker.Increment(len(batch))

			mu.Lock()
			defer mu.Unlock()
			if batchReport != nil {
				report.Indexed += batchReport.Indexed
				report.Skipped += batchReport.Skipped
				report.Failed = append(report.Failed, batchReport.Failed...)
			}
			if err != nil && runErr == nil {
				runErr = err
			}
		}); err != nil {
			wg.Done()
			return err
		}
		return nil
	})

	wg.Wait()
	tracker.Finish()

	mu.Lock()
	if streamErr == nil {
		streamErr = runErr
	}
	mu.Unlock()
	if streamErr != nil {
		return nil, fmt.Errorf("rebuilding %s index: %w", o.source.Name(), streamErr)
	}

	report.Elapsed = tracker.Elapsed()
	fmt.Fprintf(o.progress, "Rebuild complete. Indexed %d documents in %v (%d failed)\n",
		report.Indexed, report.Elapsed.Round(time.Second), len(report.Failed))

	return &report, nil
}
