package core

import (
	"time"
)

// ID is a unique identifier for domain entities.
// IDs are assigned by the relational store and are stable for the
// lifetime of the entity; index documents reuse them unchanged.
type ID int64

// JobStatus tracks a job post through its moderation lifecycle.
type JobStatus int

const (
	// JobStatusDraft is a post still being edited by the recruiter.
	JobStatusDraft JobStatus = iota + 1
	// JobStatusPending is a post awaiting moderation.
	JobStatusPending
	// JobStatusOpen is a published post accepting applications.
	JobStatusOpen
	// JobStatusClosed is a post no longer accepting applications.
	JobStatusClosed
)

// CandidateStatus tracks whether a candidate account is active.
type CandidateStatus int

const (
	// CandidateStatusActive is a candidate currently on the market.
	CandidateStatusActive CandidateStatus = iota + 1
	// CandidateStatusInactive is a deactivated candidate account.
	CandidateStatusInactive
)

// Job is a job posting owned by the relational store.
// The index holds a denormalized, searchable copy of the visible subset.
type Job struct {
	Id              ID
	Title           string
	Description     string
	Requirements    string
	Benefits        string
	CompanyName     string
	ProvinceCode    string // administrative region code, e.g. "HCM", "HN"
	CategoryId      int64
	EmploymentType  string // "full-time", "part-time", "contract", "internship"
	SalaryMin       int64
	SalaryMax       int64
	ExperienceYears int
	Status          JobStatus
	Urgent          bool
	Deleted         bool
	Views           int64
	Applies         int64
	PostedAt        time.Time
	UpdatedAt       time.Time
}

// Visible reports whether the job should currently have an index document.
func (j *Job) Visible() bool {
	return !j.Deleted && j.Status == JobStatusOpen
}

// Candidate is a candidate profile owned by the relational store.
type Candidate struct {
	Id              ID
	FullName        string
	JobTitle        string
	Skills          []string
	Summary         string
	ProvinceCode    string
	CategoryId      int64
	ExpectedSalary  int64
	ExperienceYears int
	Status          CandidateStatus
	ProfileVisible  bool
	Deleted         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Visible reports whether the candidate should currently have an index
// document. Candidates opt in to search through ProfileVisible.
func (c *Candidate) Visible() bool {
	return !c.Deleted && c.Status == CandidateStatusActive && c.ProfileVisible
}
