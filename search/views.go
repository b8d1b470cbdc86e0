package search

import (
	"time"

	"github.com/hirelink/searchcore/core"
)

// Page is one page of assembled search results. Total counts hits before
// pagination, so it can exceed len(Items) and, briefly, overstate the
// truth while the index catches up to a deletion.
type Page[T any] struct {
	Items    []T  `json:"items"`
	Total    int  `json:"total"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Degraded bool `json:"degraded,omitempty"`
}

// JobView is the search-result projection of a job posting.
type JobView struct {
	Id             core.ID   `json:"id"`
	Title          string    `json:"title"`
	CompanyName    string    `json:"company_name"`
	ProvinceCode   string    `json:"province_code"`
	EmploymentType string    `json:"employment_type"`
	SalaryMin      int64     `json:"salary_min"`
	SalaryMax      int64     `json:"salary_max"`
	Urgent         bool      `json:"urgent"`
	Score          float64   `json:"score"`
	PostedAt       time.Time `json:"posted_at"`
}

// CandidateView is the search-result projection of a candidate profile.
type CandidateView struct {
	Id              core.ID   `json:"id"`
	FullName        string    `json:"full_name"`
	JobTitle        string    `json:"job_title"`
	Skills          []string  `json:"skills"`
	ProvinceCode    string    `json:"province_code"`
	ExpectedSalary  int64     `json:"expected_salary"`
	ExperienceYears int       `json:"experience_years"`
	Score           float64   `json:"score"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func jobView(job *core.Job, score float64) JobView {
	return JobView{
		Id:             job.Id,
		Title:          job.Title,
		CompanyName:    job.CompanyName,
		ProvinceCode:   job.ProvinceCode,
		EmploymentType: job.EmploymentType,
		SalaryMin:      job.SalaryMin,
		SalaryMax:      job.SalaryMax,
		Urgent:         job.Urgent,
		Score:          score,
		PostedAt:       job.PostedAt,
	}
}

func candidateView(candidate *core.Candidate, score float64) CandidateView {
	return CandidateView{
		Id:              candidate.Id,
		FullName:        candidate.FullName,
		JobTitle:        candidate.JobTitle,
		Skills:          candidate.Skills,
		ProvinceCode:    candidate.ProvinceCode,
		ExpectedSalary:  candidate.ExpectedSalary,
		ExperienceYears: candidate.ExperienceYears,
		Score:           score,
		UpdatedAt:       candidate.UpdatedAt,
	}
}
