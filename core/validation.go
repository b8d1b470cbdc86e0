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

import (
	"fmt"
)

// ValidateJob validates a Job according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Status must be a known JobStatus
//   - SalaryMin must not exceed SalaryMax when both are set
//   - ExperienceYears must not be negative
//
// NOT validated:
//   - Id (0 is valid before the store assigns one)
//   - Views/Applies counters (maintained by the store)
func ValidateJob(job *Job) error {
	if job == nil {
		return fmt.Errorf("%w: job is nil", ErrInvalidJob)
	}

	if job.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrEmptyTitle)
	}

	if err := ValidateJobStatus(job.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	if job.SalaryMin > 0 && job.SalaryMax > 0 && job.SalaryMin > job.SalaryMax {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrInvalidSalaryRange)
	}

	if job.ExperienceYears < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrNegativeExperience)
	}

	return nil
}

// ValidateCandidate validates a Candidate according to domain rules.
//
// Validation rules:
//   - FullName must not be empty
//   - Status must be a known CandidateStatus
//   - ExperienceYears must not be negative
func ValidateCandidate(candidate *Candidate) error {
	if candidate == nil {
		return fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}

	if candidate.FullName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrEmptyFullName)
	}

	if err := ValidateCandidateStatus(candidate.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, err)
	}

	if candidate.ExperienceYears < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrNegativeExperience)
	}

	return nil
}

// ValidateJobStatus validates that a JobStatus has a valid value.
func ValidateJobStatus(status JobStatus) error {
	switch status {
	case JobStatusDraft, JobStatusPending, JobStatusOpen, JobStatusClosed:
		return nil
	}
	return fmt.Errorf("%w: value %d", ErrInvalidJobStatus, status)
}

// ValidateCandidateStatus validates that a CandidateStatus has a valid value.
func ValidateCandidateStatus(status CandidateStatus) error {
	switch status {
	case CandidateStatusActive, CandidateStatusInactive:
		return nil
	}
	return fmt.Errorf("%w: value %d", ErrInvalidCandidateStatus, status)
}
