package storage

import (
	"context"

	"github.com/hirelink/searchcore/core"
)

// JobStore is the relational-store contract for job postings.
// Implementations must be thread-safe and support concurrent access.
// The search subsystem only reads through it; the mutators exist for the
// business call sites that fire the incremental index hooks after their
// own transaction commits.
type JobStore interface {
	// GetByIds retrieves jobs by id in a single batched call.
	// The result is unordered and missing ids are silently omitted;
	// the result assembler re-imposes index order and drops the gaps.
	GetByIds(ctx context.Context, ids []core.ID) ([]*core.Job, error)

	// GetForIndexing reads one job fresh from the store, never from a
	// cache, so incremental reindex cannot index a superseded value.
	// Returns ErrNotFound if the job doesn't exist.
	GetForIndexing(ctx context.Context, id core.ID) (*core.Job, error)

	// GetAllVisible streams every currently-visible job in batches of
	// batchSize, ordered by id. Iteration stops on the first error from
	// fn; context cancellation is checked between batches.
	GetAllVisible(ctx context.Context, batchSize int, fn func([]*core.Job) error) error

	// Create inserts a job and assigns its id.
	Create(ctx context.Context, job *core.Job) (*core.Job, error)

	// Update replaces an existing job. Returns ErrNotFound if absent.
	Update(ctx context.Context, job *core.Job) error

	// SetStatus transitions a job's lifecycle status.
	SetStatus(ctx context.Context, id core.ID, status core.JobStatus) error

	// SoftDelete marks a job deleted without removing the row.
	SoftDelete(ctx context.Context, id core.ID) error

	// IncrementViews bumps the view counter. Counter updates never
	// touch the index path and must not be blocked by index failures.
	IncrementViews(ctx context.Context, id core.ID) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// CandidateStore is the relational-store contract for candidate profiles.
type CandidateStore interface {
	// GetByIds retrieves candidates by id in a single batched call.
	// Unordered; missing ids are silently omitted.
	GetByIds(ctx context.Context, ids []core.ID) ([]*core.Candidate, error)

	// GetForIndexing reads one candidate fresh from the store.
	// Returns ErrNotFound if the candidate doesn't exist.
	GetForIndexing(ctx context.Context, id core.ID) (*core.Candidate, error)

	// GetAllVisible streams every currently-visible candidate in
	// batches of batchSize, ordered by id.
	GetAllVisible(ctx context.Context, batchSize int, fn func([]*core.Candidate) error) error

	// Create inserts a candidate and assigns its id.
	Create(ctx context.Context, candidate *core.Candidate) (*core.Candidate, error)

	// Update replaces an existing candidate. Returns ErrNotFound if absent.
	Update(ctx context.Context, candidate *core.Candidate) error

	// SetVisibility toggles whether the profile appears in search.
	SetVisibility(ctx context.Context, id core.ID, visible bool) error

	// SoftDelete marks a candidate deleted without removing the row.
	SoftDelete(ctx context.Context, id core.ID) error

	// Close closes the storage backend and releases resources.
	Close() error
}
