package reindex

import "errors"

var (
	// ErrReindexInProgress indicates a full rebuild was requested while
	// another one is still running. The caller should retry later.
	ErrReindexInProgress = errors.New("reindex already in progress")

	// ErrInvalidMaxAttempts indicates a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrWriterRequired indicates a component built without an index writer.
	ErrWriterRequired = errors.New("index writer is required")

	// ErrSourceRequired indicates a component built without a document source.
	ErrSourceRequired = errors.New("document source is required")
)
