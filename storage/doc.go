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


// Package storage defines the relational-store contracts the search
// subsystem consumes. The store is the source of truth; the index is a
// denormalized copy that chases it.
//
// The contracts are deliberately narrow: batched id lookup for
// rehydration, a fresh single read for incremental reindex, and a
// batched stream of visible entities for full reindex. Repositories are
// tagged by entity type (JobStore, CandidateStore) so the write and
// read paths stay independently testable.
//
// All implementations must be thread-safe, and all methods accept
// context.Context for cancellation.
package storage
