package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelink/searchcore"
	"github.com/hirelink/searchcore/config"
	"github.com/hirelink/searchcore/core"
	"github.com/hirelink/searchcore/search"
)

type testEnv struct {
	platform *searchcore.Platform
	server   *Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Default()
	dir := t.TempDir()
	cfg.Storage.DataDir = filepath.Join(dir, "store")
	cfg.Index.Dir = filepath.Join(dir, "index")

	platform, err := searchcore.NewPlatform(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { platform.Close() })

	jobs, err := platform.NewJobSearch()
	require.NoError(t, err)
	candidates, err := platform.NewCandidateSearch()
	require.NoError(t, err)
	jobReindexer, err := platform.NewJobReindexer(nil)
	require.NoError(t, err)
	candidateReindexer, err := platform.NewCandidateReindexer(nil)
	require.NoError(t, err)

	return &testEnv{
		platform: platform,
		server: New(":0", jobs, candidates, jobReindexer, candidateReindexer,
			platform.JobIncremental(), platform.CandidateIncremental(), nil),
	}
}

func (e *testEnv) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createJob(t *testing.T, title, province string) *core.Job {
	t.Helper()
	job, err := e.platform.Jobs().Create(context.Background(), &core.Job{
		Title: title, ProvinceCode: province, Status: core.JobStatusOpen,
	})
	require.NoError(t, err)
	e.platform.JobIncremental().IndexAfterCommit(job.Id)
	return job
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestJobSearchEndpoint(t *testing.T) {
	e := newTestEnv(t)
	job := e.createJob(t, "Backend Engineer", "HCM")
	e.createJob(t, "Frontend Engineer", "HN")

	rec := e.post(t, "/api/v1/jobs/search", search.JobQuery{
		Keyword: "Backend", Province: "HCM",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var page search.Page[search.JobView]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, job.Id, page.Items[0].Id)
	assert.Equal(t, 1, page.Total)
}

func TestJobSearchEndpointRejectsBadJSON(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/search",
		bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCandidateSearchEndpoint(t *testing.T) {
	e := newTestEnv(t)

	candidate, err := e.platform.Candidates().Create(context.Background(), &core.Candidate{
		FullName: "Nguyen Van A", JobTitle: "Golang Developer",
		Status: core.CandidateStatusActive, ProfileVisible: true,
	})
	require.NoError(t, err)
	e.platform.CandidateIncremental().IndexAfterCommit(candidate.Id)

	rec := e.post(t, "/api/v1/candidates/search", search.CandidateQuery{Keyword: "golang"})
	require.Equal(t, http.StatusOK, rec.Code)

	var page search.Page[search.CandidateView]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, candidate.Id, page.Items[0].Id)
}

func TestReindexEndpoint(t *testing.T) {
	e := newTestEnv(t)
	e.createJob(t, "Engineer", "HCM")
	e.createJob(t, "Engineer", "HN")

	rec := e.post(t, "/api/v1/admin/reindex/jobs", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp reindexResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Indexed)
	assert.Equal(t, 0, resp.Failed)
}

func TestReindexEndpointNotConfigured(t *testing.T) {
	e := newTestEnv(t)
	e.server = New(":0", nil, nil, nil, nil, nil, nil, nil)

	rec := e.post(t, "/api/v1/admin/reindex/jobs", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = e.post(t, "/api/v1/admin/reindex/jobs/1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReindexSingleJobEndpoint(t *testing.T) {
	e := newTestEnv(t)

	// Created without firing the post-commit hook; only the endpoint
	// brings the index up to date.
	job, err := e.platform.Jobs().Create(context.Background(), &core.Job{
		Title: "Backend Engineer", ProvinceCode: "HCM", Status: core.JobStatusOpen,
	})
	require.NoError(t, err)

	rec := e.post(t, fmt.Sprintf("/api/v1/admin/reindex/jobs/%d", job.Id), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.post(t, "/api/v1/jobs/search", search.JobQuery{Keyword: "backend"})
	require.Equal(t, http.StatusOK, rec.Code)

	var page search.Page[search.JobView]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, job.Id, page.Items[0].Id)
}

func TestReindexSingleJobEndpointRemovesInvisible(t *testing.T) {
	e := newTestEnv(t)
	job := e.createJob(t, "Backend Engineer", "HCM")

	require.NoError(t, e.platform.Jobs().SoftDelete(context.Background(), job.Id))

	rec := e.post(t, fmt.Sprintf("/api/v1/admin/reindex/jobs/%d", job.Id), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.post(t, "/api/v1/jobs/search", search.JobQuery{Keyword: "backend"})
	require.Equal(t, http.StatusOK, rec.Code)

	var page search.Page[search.JobView]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
}

func TestReindexSingleJobEndpointRejectsBadId(t *testing.T) {
	e := newTestEnv(t)

	rec := e.post(t, "/api/v1/admin/reindex/jobs/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.post(t, "/api/v1/admin/reindex/jobs/0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReindexSingleCandidateEndpoint(t *testing.T) {
	e := newTestEnv(t)

	candidate, err := e.platform.Candidates().Create(context.Background(), &core.Candidate{
		FullName: "Tran Thi B", JobTitle: "Data Engineer",
		Status: core.CandidateStatusActive, ProfileVisible: true,
	})
	require.NoError(t, err)

	rec := e.post(t, fmt.Sprintf("/api/v1/admin/reindex/candidates/%d", candidate.Id), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.post(t, "/api/v1/candidates/search", search.CandidateQuery{Keyword: "data"})
	require.Equal(t, http.StatusOK, rec.Code)

	var page search.Page[search.CandidateView]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, candidate.Id, page.Items[0].Id)
}
