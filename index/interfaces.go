package index

import (
	"context"

	"github.com/hirelink/searchcore/core"
)

// Writer is the mutation side of an index. Implementations must be
// thread-safe; concurrent upserts to the same id resolve last-writer-wins
// and each document replacement is atomic, so a concurrent reader never
// observes a half-written document.
type Writer interface {
	// Upsert stores or replaces the document for doc.Id. Idempotent;
	// an unchanged document (identical fingerprint) is a no-op.
	Upsert(ctx context.Context, doc *Document) error

	// UpsertMany indexes a batch of documents. Failures are reported
	// per document; successful documents commit regardless.
	UpsertMany(ctx context.Context, docs []*Document) (*BatchReport, error)

	// Delete removes the document for id. Deleting an absent id is a
	// no-op, not an error.
	Delete(ctx context.Context, id core.ID) error

	// Clear drops every document in the index. Used only by full
	// reindex, which must follow up with a complete rebuild.
	Clear(ctx context.Context) error
}

// Engine is the query side of an index. Reads never block behind writes.
type Engine interface {
	// Search executes criteria and returns the requested page of ranked
	// hits plus the pre-pagination hit count. Zero hits yield an empty
	// result, not an error. A context deadline turns into
	// ErrQueryTimeout instead of blocking indefinitely.
	Search(ctx context.Context, criteria Criteria) (*Result, error)
}

// Index combines both sides. The badger implementation satisfies it with
// a single type; the split interfaces keep the write and read paths
// independently testable.
type Index interface {
	Writer
	Engine
}
