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


package search

import (
	"strconv"
	"strings"

	"github.com/hirelink/searchcore/core"
	"github.com/hirelink/searchcore/index"
)

// Index field names shared by the document mappers and the criteria
// builders. Queries and documents must agree on these exactly.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldRequirement = "requirements"
	FieldBenefits    = "benefits"
	FieldCompanyName = "company_name"
	FieldFullName    = "full_name"
	FieldJobTitle    = "job_title"
	FieldSkills      = "skills"
	FieldSummary     = "summary"

	FieldProvince       = "province"
	FieldCategory       = "category"
	FieldEmploymentType = "employment_type"

	FieldSalaryMin       = "salary_min"
	FieldSalaryMax       = "salary_max"
	FieldExpectedSalary  = "expected_salary"
	FieldExperienceYears = "experience_years"
)

// DefaultJobWeights returns the per-field scoring weights for the job
// index analyzer. Title matches dominate; benefits barely register.
func DefaultJobWeights() map[string]float64 {
	return map[string]float64{
		FieldTitle:       3.0,
		FieldCompanyName: 2.0,
		FieldRequirement: 1.5,
		FieldDescription: 1.0,
		FieldBenefits:    0.5,
	}
}

// DefaultCandidateWeights returns the per-field scoring weights for the
// candidate index analyzer.
func DefaultCandidateWeights() map[string]float64 {
	return map[string]float64{
		FieldJobTitle: 3.0,
		FieldSkills:   2.5,
		FieldFullName: 2.0,
		FieldSummary:  1.0,
	}
}

// JobDocument maps a job row to its index document. Callers must check
// Visible first; the mapper does not.
func JobDocument(job *core.Job) *index.Document {
	return &index.Document{
		Id: job.Id,
		Text: map[string]string{
			FieldTitle:       job.Title,
			FieldDescription: job.Description,
			FieldRequirement: job.Requirements,
			FieldBenefits:    job.Benefits,
			FieldCompanyName: job.CompanyName,
		},
		Keywords: map[string]string{
			FieldProvince:       job.ProvinceCode,
			FieldCategory:       strconv.FormatInt(job.CategoryId, 10),
			FieldEmploymentType: job.EmploymentType,
		},
		Numerics: map[string]int64{
			FieldSalaryMin:       job.SalaryMin,
			FieldSalaryMax:       job.SalaryMax,
			FieldExperienceYears: int64(job.ExperienceYears),
		},
		UpdatedAt: job.UpdatedAt,
		Boosted:   job.Urgent,
	}
}

// CandidateDocument maps a candidate row to its index document.
func CandidateDocument(candidate *core.Candidate) *index.Document {
	return &index.Document{
		Id: candidate.Id,
		Text: map[string]string{
			FieldFullName: candidate.FullName,
			FieldJobTitle: candidate.JobTitle,
			FieldSkills:   strings.Join(candidate.Skills, " "),
			FieldSummary:  candidate.Summary,
		},
		Keywords: map[string]string{
			FieldProvince: candidate.ProvinceCode,
			FieldCategory: strconv.FormatInt(candidate.CategoryId, 10),
		},
		Numerics: map[string]int64{
			FieldExpectedSalary:  candidate.ExpectedSalary,
			FieldExperienceYears: int64(candidate.ExperienceYears),
		},
		UpdatedAt: candidate.UpdatedAt,
	}
}
