package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobVisible(t *testing.T) {
	now := time.Now().UTC()

	t.Run("open job is visible", func(t *testing.T) {
		job := &Job{Id: 1, Title: "Backend Developer", Status: JobStatusOpen, PostedAt: now}
		assert.True(t, job.Visible())
	})

	t.Run("draft job is not visible", func(t *testing.T) {
		job := &Job{Id: 1, Title: "Backend Developer", Status: JobStatusDraft}
		assert.False(t, job.Visible())
	})

	t.Run("pending job is not visible", func(t *testing.T) {
		job := &Job{Id: 1, Title: "Backend Developer", Status: JobStatusPending}
		assert.False(t, job.Visible())
	})

	t.Run("closed job is not visible", func(t *testing.T) {
		job := &Job{Id: 1, Title: "Backend Developer", Status: JobStatusClosed}
		assert.False(t, job.Visible())
	})

	t.Run("soft-deleted open job is not visible", func(t *testing.T) {
		job := &Job{Id: 1, Title: "Backend Developer", Status: JobStatusOpen, Deleted: true}
		assert.False(t, job.Visible())
	})
}

func TestCandidateVisible(t *testing.T) {
	t.Run("active visible profile", func(t *testing.T) {
		c := &Candidate{Id: 1, FullName: "Nguyen Van A", Status: CandidateStatusActive, ProfileVisible: true}
		assert.True(t, c.Visible())
	})

	t.Run("hidden profile", func(t *testing.T) {
		c := &Candidate{Id: 1, FullName: "Nguyen Van A", Status: CandidateStatusActive, ProfileVisible: false}
		assert.False(t, c.Visible())
	})

	t.Run("inactive account", func(t *testing.T) {
		c := &Candidate{Id: 1, FullName: "Nguyen Van A", Status: CandidateStatusInactive, ProfileVisible: true}
		assert.False(t, c.Visible())
	})

	t.Run("soft-deleted profile", func(t *testing.T) {
		c := &Candidate{Id: 1, FullName: "Nguyen Van A", Status: CandidateStatusActive, ProfileVisible: true, Deleted: true}
		assert.False(t, c.Visible())
	})
}
