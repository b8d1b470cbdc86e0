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


// Package search exposes the end-user query services. A service turns a
// typed query into index criteria, executes it through a circuit
// breaker, then rehydrates the ranked ids from the relational store and
// drops entries the store no longer considers visible.
//
// Index failures degrade: the caller gets an empty, flagged page rather
// than an error, because a recruitment feed with no results beats a 500.
// Query timeouts are the exception and surface as ErrQueryTimeout so the
// transport can distinguish overload from absence.
package search
