package search

import "errors"

var (
	// ErrEngineRequired indicates a service was built without an index engine.
	ErrEngineRequired = errors.New("index engine is required")

	// ErrStoreRequired indicates a service was built without a store.
	ErrStoreRequired = errors.New("store is required")
)
