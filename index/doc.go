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


// Package index defines the inverted-index contracts of the search
// subsystem: the denormalized Document model, the Writer and Engine
// interfaces, the query Criteria, and the analyzer shared by the write
// and read paths.
//
// An index holds at most one document per visible entity. Documents are
// replaced whole on update and may transiently outlive their relational
// row; the result assembler compensates by skipping ids that no longer
// resolve.
//
// Ordering is deterministic: relevance score descending, then recency,
// then the urgency boost, then ascending id. Two identical queries
// against identical documents always return identical ordering.
package index
