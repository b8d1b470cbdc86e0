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

	"github.com/hirelink/searchcore/index"
)

const (
	// DefaultPageSize applies when a query omits the page size.
	DefaultPageSize = 20
	// MaxPageSize caps what a client may request per page.
	MaxPageSize = 100
)

// JobQuery is one end-user job search. Zero values mean "no filter";
// optional numeric bounds are pointers so 0 stays a usable value.
type JobQuery struct {
	Keyword        string `json:"keyword"`
	Province       string `json:"province"`
	CategoryId     int64  `json:"category_id"`
	EmploymentType string `json:"employment_type"`

	// SalaryMin/SalaryMax describe the desired salary band. A job matches
	// when its own band overlaps: job.salary_max >= SalaryMin and
	// job.salary_min <= SalaryMax.
	SalaryMin *int64 `json:"salary_min"`
	SalaryMax *int64 `json:"salary_max"`

	// MaxExperience keeps out jobs demanding more years than the seeker has.
	MaxExperience *int `json:"max_experience"`

	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Criteria converts the query to index criteria, paging included.
func (q *JobQuery) Criteria() index.Criteria {
	page, size := normalizePage(q.Page, q.PageSize)

	c := index.Criteria{
		Keyword:  q.Keyword,
		Keywords: map[string]string{},
		Skip:     (page - 1) * size,
		Take:     size,
	}
	if q.Province != "" {
		c.Keywords[FieldProvince] = q.Province
	}
	if q.CategoryId != 0 {
		c.Keywords[FieldCategory] = strconv.FormatInt(q.CategoryId, 10)
	}
	if q.EmploymentType != "" {
		c.Keywords[FieldEmploymentType] = q.EmploymentType
	}
	if q.SalaryMin != nil {
		c.Ranges = append(c.Ranges, index.Range{Field: FieldSalaryMax, Min: *q.SalaryMin, HasMin: true})
	}
	if q.SalaryMax != nil {
		c.Ranges = append(c.Ranges, index.Range{Field: FieldSalaryMin, Max: *q.SalaryMax, HasMax: true})
	}
	if q.MaxExperience != nil {
		c.Ranges = append(c.Ranges, index.Range{Field: FieldExperienceYears, Max: int64(*q.MaxExperience), HasMax: true})
	}
	return c
}

// CandidateQuery is one recruiter-side candidate search.
type CandidateQuery struct {
	Keyword    string `json:"keyword"`
	Province   string `json:"province"`
	CategoryId int64  `json:"category_id"`

	// SalaryBudget keeps out candidates expecting more than the budget.
	SalaryBudget *int64 `json:"salary_budget"`

	// MinExperience requires at least that many years.
	MinExperience *int `json:"min_experience"`

	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Criteria converts the query to index criteria.
func (q *CandidateQuery) Criteria() index.Criteria {
	page, size := normalizePage(q.Page, q.PageSize)

	c := index.Criteria{
		Keyword:  q.Keyword,
		Keywords: map[string]string{},
		Skip:     (page - 1) * size,
		Take:     size,
	}
	if q.Province != "" {
		c.Keywords[FieldProvince] = q.Province
	}
	if q.CategoryId != 0 {
		c.Keywords[FieldCategory] = strconv.FormatInt(q.CategoryId, 10)
	}
	if q.SalaryBudget != nil {
		c.Ranges = append(c.Ranges, index.Range{Field: FieldExpectedSalary, Max: *q.SalaryBudget, HasMax: true})
	}
	if q.MinExperience != nil {
		c.Ranges = append(c.Ranges, index.Range{Field: FieldExperienceYears, Min: int64(*q.MinExperience), HasMin: true})
	}
	return c
}

// normalizePage clamps paging inputs rather than erroring on them.
func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}
