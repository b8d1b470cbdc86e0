package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelink/searchcore/core"
	"github.com/hirelink/searchcore/index"
	indexbadger "github.com/hirelink/searchcore/index/badger"
	"github.com/hirelink/searchcore/storage"
	"github.com/hirelink/searchcore/storage/sqlite"
)

type jobFixture struct {
	index   *indexbadger.Index
	jobs    storage.JobStore
	service *JobSearch
}

func newJobFixture(t *testing.T, opts ...Option) *jobFixture {
	t.Helper()

	ix, backend, err := indexbadger.NewMemoryIndex("jobs", index.NewAnalyzer(DefaultJobWeights()))
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	service, err := NewJobSearch(ix, store.Jobs(), opts...)
	require.NoError(t, err)

	return &jobFixture{index: ix, jobs: store.Jobs(), service: service}
}

// addJob inserts a job row and indexes its document, the way the
// incremental write path does after commit.
func (f *jobFixture) addJob(t *testing.T, job *core.Job) *core.Job {
	t.Helper()
	created, err := f.jobs.Create(context.Background(), job)
	require.NoError(t, err)
	require.NoError(t, f.index.Upsert(context.Background(), JobDocument(created)))
	return created
}

func TestNewJobSearchValidation(t *testing.T) {
	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = NewJobSearch(nil, store.Jobs())
	assert.ErrorIs(t, err, ErrEngineRequired)

	ix, backend, err := indexbadger.NewMemoryIndex("jobs", index.NewAnalyzer(nil))
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewJobSearch(ix, nil)
	assert.ErrorIs(t, err, ErrStoreRequired)
}

func TestJobSearchKeywordAndProvince(t *testing.T) {
	f := newJobFixture(t)

	backend := f.addJob(t, &core.Job{
		Title: "Backend Engineer", ProvinceCode: "HCM", Status: core.JobStatusOpen,
	})
	f.addJob(t, &core.Job{
		Title: "Frontend Engineer", ProvinceCode: "HN", Status: core.JobStatusOpen,
	})
	f.addJob(t, &core.Job{
		Title: "Backend Engineer", ProvinceCode: "DN", Status: core.JobStatusOpen,
	})

	page, err := f.service.Search(context.Background(), JobQuery{
		Keyword: "Backend", Province: "HCM",
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, backend.Id, page.Items[0].Id)
	assert.Equal(t, 1, page.Total)
	assert.False(t, page.Degraded)
}

func TestJobSearchAccentInsensitive(t *testing.T) {
	f := newJobFixture(t)

	job := f.addJob(t, &core.Job{
		Title: "Kỹ sư phần mềm", ProvinceCode: "HCM", Status: core.JobStatusOpen,
	})

	page, err := f.service.Search(context.Background(), JobQuery{Keyword: "ky su"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, job.Id, page.Items[0].Id)
}

func TestJobSearchSalaryOverlap(t *testing.T) {
	f := newJobFixture(t)

	inside := f.addJob(t, &core.Job{
		Title: "Engineer", SalaryMin: 15_000_000, SalaryMax: 25_000_000,
		Status: core.JobStatusOpen,
	})
	f.addJob(t, &core.Job{
		Title: "Engineer", SalaryMin: 40_000_000, SalaryMax: 60_000_000,
		Status: core.JobStatusOpen,
	})

	qmin, qmax := int64(10_000_000), int64(30_000_000)
	page, err := f.service.Search(context.Background(), JobQuery{
		SalaryMin: &qmin, SalaryMax: &qmax,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, inside.Id, page.Items[0].Id)
}

func TestJobSearchDropsStaleHits(t *testing.T) {
	f := newJobFixture(t)

	kept := f.addJob(t, &core.Job{Title: "Engineer", Status: core.JobStatusOpen})
	stale := f.addJob(t, &core.Job{Title: "Engineer", Status: core.JobStatusOpen})

	// The row goes away but the index entry survives, as happens in the
	// window before the incremental delete lands.
	require.NoError(t, f.jobs.SoftDelete(context.Background(), stale.Id))

	page, err := f.service.Search(context.Background(), JobQuery{Keyword: "Engineer"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, kept.Id, page.Items[0].Id)
	// Total still reflects the index's view until reindex catches up.
	assert.Equal(t, 2, page.Total)
}

func TestJobSearchPagination(t *testing.T) {
	f := newJobFixture(t)

	for i := 0; i < 5; i++ {
		f.addJob(t, &core.Job{Title: "Engineer", Status: core.JobStatusOpen})
	}

	seen := map[core.ID]bool{}
	for pageNo := 1; pageNo <= 3; pageNo++ {
		page, err := f.service.Search(context.Background(), JobQuery{
			Keyword: "Engineer", Page: pageNo, PageSize: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 5, page.Total)
		assert.Equal(t, pageNo, page.Page)
		for _, item := range page.Items {
			assert.False(t, seen[item.Id], "id %d returned twice", item.Id)
			seen[item.Id] = true
		}
	}
	assert.Len(t, seen, 5)
}

func TestJobSearchZeroHits(t *testing.T) {
	f := newJobFixture(t)
	f.addJob(t, &core.Job{Title: "Engineer", Status: core.JobStatusOpen})

	page, err := f.service.Search(context.Background(), JobQuery{Keyword: "astronaut"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)
	assert.False(t, page.Degraded)
}

// failingEngine simulates a broken index backend.
type failingEngine struct {
	err error
}

func (e *failingEngine) Search(context.Context, index.Criteria) (*index.Result, error) {
	return nil, e.err
}

func TestJobSearchDegradesOnIndexFailure(t *testing.T) {
	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	engine := &failingEngine{err: index.ErrIndexUnavailable}
	service, err := NewJobSearch(engine, store.Jobs())
	require.NoError(t, err)

	page, err := service.Search(context.Background(), JobQuery{Keyword: "anything"})
	require.NoError(t, err)
	assert.True(t, page.Degraded)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)
}

func TestJobSearchSurfacesQueryTimeout(t *testing.T) {
	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	engine := &failingEngine{err: index.ErrQueryTimeout}
	service, err := NewJobSearch(engine, store.Jobs(), WithTimeout(time.Millisecond))
	require.NoError(t, err)

	_, err = service.Search(context.Background(), JobQuery{Keyword: "anything"})
	assert.ErrorIs(t, err, index.ErrQueryTimeout)
}

func TestJobSearchBreakerOpensAfterFailures(t *testing.T) {
	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	engine := &failingEngine{err: errors.New("disk gone")}
	service, err := NewJobSearch(engine, store.Jobs())
	require.NoError(t, err)

	// Enough consecutive failures to trip the default breaker; every
	// response along the way stays a degraded page, never an error.
	for i := 0; i < 10; i++ {
		page, err := service.Search(context.Background(), JobQuery{Keyword: "x"})
		require.NoError(t, err)
		assert.True(t, page.Degraded)
	}
}

func TestJobQueryCriteria(t *testing.T) {
	budget := int64(50_000_000)
	exp := 3
	q := JobQuery{
		Keyword:        "golang",
		Province:       "HCM",
		CategoryId:     7,
		EmploymentType: "full-time",
		SalaryMax:      &budget,
		MaxExperience:  &exp,
		Page:           2,
		PageSize:       10,
	}

	c := q.Criteria()
	assert.Equal(t, "golang", c.Keyword)
	assert.Equal(t, map[string]string{
		FieldProvince:       "HCM",
		FieldCategory:       "7",
		FieldEmploymentType: "full-time",
	}, c.Keywords)
	require.Len(t, c.Ranges, 2)
	assert.Equal(t, 10, c.Skip)
	assert.Equal(t, 10, c.Take)
}

func TestNormalizePageClamps(t *testing.T) {
	page, size := normalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)

	page, size = normalizePage(-3, 9999)
	assert.Equal(t, 1, page)
	assert.Equal(t, MaxPageSize, size)
}
