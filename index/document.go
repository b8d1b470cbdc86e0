package index

import (
	"time"

	"github.com/hirelink/searchcore/core"
)

// Document is the denormalized, searchable representation of one entity.
// It lives only in the index; the relational store remains the source of
// truth. A document is always replaced whole on update, never patched.
type Document struct {
	Id core.ID

	// Text holds the free-text fields, keyed by field name. Field names
	// select the analyzer weight applied at index time.
	Text map[string]string

	// Keywords holds exact-match filter fields (province code, category,
	// employment type, status). Not tokenized.
	Keywords map[string]string

	// Numerics holds range filter fields (salary bounds, experience).
	Numerics map[string]int64

	// UpdatedAt is the recency tie-break key (posting or profile-update
	// timestamp, depending on the entity type).
	UpdatedAt time.Time

	// Boosted marks urgent entries; it breaks ties after recency.
	Boosted bool
}

// Hit is one ranked entry returned by the query engine.
type Hit struct {
	Id    core.ID
	Score float64
}

// Result is the outcome of a query: the requested page of ranked hits
// plus the total hit count before pagination. Total is the authoritative
// figure for page-count math even when rehydration later drops stale ids.
type Result struct {
	Hits  []Hit
	Total int
}

// BatchReport summarizes an UpsertMany call. Partial success is normal:
// failed documents are reported individually and do not abort the batch.
type BatchReport struct {
	Indexed int
	Skipped int // unchanged documents detected by fingerprint
	Failed  []BatchFailure
}

// BatchFailure records a single document that could not be indexed.
type BatchFailure struct {
	Id  core.ID
	Err error
}
