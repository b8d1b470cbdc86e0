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


// Package reindex keeps the search index synchronized with the
// relational store.
//
// Two paths exist. The Orchestrator rebuilds one index from scratch by
// clearing it and streaming every visible entity back in through a
// worker pool; at most one full rebuild per orchestrator runs at a
// time. Incremental applies single-entity updates after a business
// transaction commits, re-reading the entity fresh so a superseded
// value is never indexed, and parks failures on a bounded retry queue
// instead of failing the business operation.
package reindex
