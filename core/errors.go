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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidJob indicates a Job failed validation.
	ErrInvalidJob = errors.New("invalid job")

	// ErrInvalidCandidate indicates a Candidate failed validation.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyFullName indicates the FullName field is empty.
	ErrEmptyFullName = errors.New("full name cannot be empty")

	// ErrInvalidJobStatus indicates an invalid JobStatus value.
	ErrInvalidJobStatus = errors.New("invalid job status")

	// ErrInvalidCandidateStatus indicates an invalid CandidateStatus value.
	ErrInvalidCandidateStatus = errors.New("invalid candidate status")

	// ErrInvalidSalaryRange indicates SalaryMin exceeds SalaryMax.
	ErrInvalidSalaryRange = errors.New("salary minimum cannot exceed maximum")

	// ErrNegativeExperience indicates a negative experience value.
	ErrNegativeExperience = errors.New("experience years cannot be negative")
)
