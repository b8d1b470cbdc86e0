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
	"log/slog"
	"sync"
	"time"

	"github.com/hirelink/searchcore/core"
	"github.com/hirelink/searchcore/index"
)

// opTimeout bounds one queued incremental update including its retries.
const opTimeout = time.Minute

// Incremental applies single-entity index updates after the owning
// business transaction commits. The entity is always re-read fresh, so
// whatever the store holds at indexing time wins even when hooks for the
// same id race.
type Incremental struct {
	writer index.Writer
	source Source
	config *Config

	queue     chan core.ID
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewIncremental creates the incremental update path for one index and
// starts its retry worker.
func NewIncremental(writer index.Writer, source Source, config *Config) (*Incremental, error) {
	if writer == nil {
		return nil, ErrWriterRequired
	}
	if source == nil {
		return nil, ErrSourceRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	inc := &Incremental{
		writer: writer,
		source: source,
		config: config,
		queue:  make(chan core.ID, config.QueueSize),
		done:   make(chan struct{}),
	}

	inc.wg.Add(1)
	go inc.retryLoop()

	return inc, nil
}

// Index synchronizes one entity with the index right now: upsert when
// the store's current value is visible, delete otherwise.
func (i *Incremental) Index(ctx context.Context, id core.ID) error {
	doc, visible, err := i.source.Document(ctx, id)
	if err != nil {
		return err
	}
	if !visible {
		if err := i.writer.Delete(ctx, id); err != nil {
			return fmt.Errorf("removing %s document %d: %w", i.source.Name(), id, err)
		}
		return nil
	}
	if err := i.writer.Upsert(ctx, doc); err != nil {
		return fmt.Errorf("indexing %s document %d: %w", i.source.Name(), id, err)
	}
	return nil
}

// IndexAfterCommit is the post-commit hook for business call sites. It
// tries the update once synchronously; on failure it parks the id on
// the retry queue and returns, because an index hiccup must not fail
// the committed business operation. A full queue drops the update and
// the next full rebuild reconciles it.
func (i *Incremental) IndexAfterCommit(id core.ID) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := i.Index(ctx, id)
	if err == nil {
		return
	}
	slog.Warn("incremental index failed, queueing retry",
		"entity", i.source.Name(), "id", id, "error", err)

	select {
	case i.queue <- id:
	default:
		slog.Error("incremental retry queue full, dropping update",
			"entity", i.source.Name(), "id", id)
	}
}

// Close stops the retry worker. Queued updates that have not started
// are abandoned.
func (i *Incremental) Close() error {
	i.closeOnce.Do(func() {
		close(i.done)
	})
	i.wg.Wait()
	return nil
}

func (i *Incremental) retryLoop() {
	defer i.wg.Done()
	for {
		select {
		case <-i.done:
			return
		case id := <-i.queue:
			ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
			err := i.config.Backoff().Retry(ctx, func() error {
				return i.Index(ctx, id)
			})
			cancel()

			if err != nil {
				slog.Error("incremental index retries exhausted",
					"entity", i.source.Name(), "id", id, "error", err)
			}
		}
	}
}
