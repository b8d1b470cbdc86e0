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


package index

import "errors"

var (
	// ErrNilDocument indicates an Upsert call with a nil document.
	ErrNilDocument = errors.New("nil document")

	// ErrMissingId indicates a document without an entity id.
	ErrMissingId = errors.New("document id required")

	// ErrQueryTimeout indicates a query exceeded its time budget.
	ErrQueryTimeout = errors.New("query timed out")

	// ErrIndexUnavailable indicates the index storage failed; end-user
	// search degrades on it, administrative reindex surfaces it.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrTruncatedDocument indicates stored document bytes could not be
	// decoded back into a document.
	ErrTruncatedDocument = errors.New("truncated document data")
)
