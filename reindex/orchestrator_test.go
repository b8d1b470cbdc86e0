package reindex

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelink/searchcore/core"
	"github.com/hirelink/searchcore/index"
	indexbadger "github.com/hirelink/searchcore/index/badger"
	"github.com/hirelink/searchcore/search"
	"github.com/hirelink/searchcore/storage/sqlite"
)

func testConfig() *Config {
	return &Config{
		BatchSize:      2,
		Workers:        2,
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
		QueueSize:      16,
	}
}

type jobFixture struct {
	store *sqlite.Store
	index *indexbadger.Index
}

func newJobFixture(t *testing.T) *jobFixture {
	t.Helper()

	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ix, backend, err := indexbadger.NewMemoryIndex("jobs", index.NewAnalyzer(search.DefaultJobWeights()))
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	return &jobFixture{store: store, index: ix}
}

func (f *jobFixture) createJobs(t *testing.T, n int, status core.JobStatus) []*core.Job {
	t.Helper()
	jobs := make([]*core.Job, n)
	for i := range jobs {
		job, err := f.store.Jobs().Create(context.Background(), &core.Job{
			Title: "Engineer", ProvinceCode: "HCM", Status: status,
		})
		require.NoError(t, err)
		jobs[i] = job
	}
	return jobs
}

func (f *jobFixture) searchTotal(t *testing.T) int {
	t.Helper()
	result, err := f.index.Search(context.Background(), index.Criteria{})
	require.NoError(t, err)
	return result.Total
}

func TestOrchestratorRebuildsAllVisibleJobs(t *testing.T) {
	f := newJobFixture(t)
	f.createJobs(t, 5, core.JobStatusOpen)
	f.createJobs(t, 2, core.JobStatusDraft)

	var progress bytes.Buffer
	o, err := NewOrchestrator(f.index, NewJobSource(f.store.Jobs()), testConfig(), &progress)
	require.NoError(t, err)

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, report.Indexed)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 5, f.searchTotal(t))
	assert.Contains(t, progress.String(), "Rebuild complete")
}

func TestOrchestratorReplacesStaleEntries(t *testing.T) {
	f := newJobFixture(t)
	jobs := f.createJobs(t, 3, core.JobStatusOpen)

	o, err := NewOrchestrator(f.index, NewJobSource(f.store.Jobs()), testConfig(), nil)
	require.NoError(t, err)

	_, err = o.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, f.searchTotal(t))

	// A job closes while the index still carries it; the next rebuild
	// must drop it.
	require.NoError(t, f.store.Jobs().SetStatus(context.Background(), jobs[0].Id, core.JobStatusClosed))

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Indexed)
	assert.Equal(t, 2, f.searchTotal(t))
}

func TestOrchestratorIdempotent(t *testing.T) {
	f := newJobFixture(t)
	f.createJobs(t, 4, core.JobStatusOpen)

	o, err := NewOrchestrator(f.index, NewJobSource(f.store.Jobs()), testConfig(), nil)
	require.NoError(t, err)

	first, err := o.Run(context.Background())
	require.NoError(t, err)
	second, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Indexed, second.Indexed)
	assert.Equal(t, 4, f.searchTotal(t))
}

// blockingSource parks Documents until released so a second Run can be
// attempted mid-rebuild.
type blockingSource struct {
	Source
	release chan struct{}
	started chan struct{}
	once    sync.Once
}

func (s *blockingSource) Documents(ctx context.Context, batchSize int, fn func([]*index.Document) error) error {
	s.once.Do(func() { close(s.started) })
	<-s.release
	return s.Source.Documents(ctx, batchSize, fn)
}

func TestOrchestratorRejectsConcurrentRun(t *testing.T) {
	f := newJobFixture(t)
	f.createJobs(t, 2, core.JobStatusOpen)

	source := &blockingSource{
		Source:  NewJobSource(f.store.Jobs()),
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	o, err := NewOrchestrator(f.index, source, testConfig(), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := o.Run(context.Background())
		assert.NoError(t, err)
	}()

	<-source.started
	assert.True(t, o.Running())
	_, err = o.Run(context.Background())
	assert.ErrorIs(t, err, ErrReindexInProgress)

	close(source.release)
	wg.Wait()

	// After the first run finishes the orchestrator accepts work again.
	assert.False(t, o.Running())
	_, err = o.Run(context.Background())
	assert.NoError(t, err)
}

func TestOrchestratorHonorsCancellation(t *testing.T) {
	f := newJobFixture(t)
	f.createJobs(t, 10, core.JobStatusOpen)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o, err := NewOrchestrator(f.index, NewJobSource(f.store.Jobs()), testConfig(), nil)
	require.NoError(t, err)

	_, err = o.Run(ctx)
	assert.Error(t, err)
}

func TestNewOrchestratorValidation(t *testing.T) {
	f := newJobFixture(t)

	_, err := NewOrchestrator(nil, NewJobSource(f.store.Jobs()), nil, nil)
	assert.ErrorIs(t, err, ErrWriterRequired)

	_, err = NewOrchestrator(f.index, nil, nil, nil)
	assert.ErrorIs(t, err, ErrSourceRequired)
}

func TestOrchestratorCandidateSource(t *testing.T) {
	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ix, backend, err := indexbadger.NewMemoryIndex("candidates", index.NewAnalyzer(search.DefaultCandidateWeights()))
	require.NoError(t, err)
	defer backend.Close()

	for i := 0; i < 3; i++ {
		_, err := store.Candidates().Create(context.Background(), &core.Candidate{
			FullName: "Candidate", Status: core.CandidateStatusActive, ProfileVisible: true,
		})
		require.NoError(t, err)
	}
	hidden, err := store.Candidates().Create(context.Background(), &core.Candidate{
		FullName: "Hidden", Status: core.CandidateStatusActive, ProfileVisible: false,
	})
	require.NoError(t, err)

	o, err := NewOrchestrator(ix, NewCandidateSource(store.Candidates()), testConfig(), nil)
	require.NoError(t, err)

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Indexed)

	result, err := ix.Search(context.Background(), index.Criteria{})
	require.NoError(t, err)
	for _, hit := range result.Hits {
		assert.NotEqual(t, hidden.Id, hit.Id)
	}
}

// failingWriter fails Clear to simulate an unavailable index backend.
type failingWriter struct {
	index.Writer
}

func (w *failingWriter) Clear(context.Context) error {
	return errors.New("backend gone")
}

func TestOrchestratorSurfacesClearFailure(t *testing.T) {
	f := newJobFixture(t)

	o, err := NewOrchestrator(&failingWriter{Writer: f.index}, NewJobSource(f.store.Jobs()), testConfig(), nil)
	require.NoError(t, err)

	_, err = o.Run(context.Background())
	assert.ErrorContains(t, err, "clearing jobs index")
}
