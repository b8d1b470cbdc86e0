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

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hirelink/searchcore/core"
	"github.com/hirelink/searchcore/storage"
)

const jobColumns = `id, title, description, requirements, benefits, company_name,
	province_code, category_id, employment_type, salary_min, salary_max,
	experience_years, status, urgent, deleted, views, applies, posted_at, updated_at`

type jobStore struct {
	store *Store
}

func (r *jobStore) GetByIds(ctx context.Context, ids []core.ID) ([]*core.Job, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = int64(id)
	}

	db, err := r.store.handle()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM jobs WHERE id IN (%s)", jobColumns, placeholders(len(ids)))
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying jobs by ids: %w", err)
	}
	defer rows.Close()

	var jobs []*core.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *jobStore) GetForIndexing(ctx context.Context, id core.ID) (*core.Job, error) {
	db, err := r.store.handle()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM jobs WHERE id = ?", jobColumns)
	row := db.QueryRowContext(ctx, query, int64(id))

	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (r *jobStore) GetAllVisible(ctx context.Context, batchSize int, fn func([]*core.Job) error) error {
	if batchSize <= 0 {
		return storage.ErrInvalidBatchSize
	}
	db, err := r.store.handle()
	if err != nil {
		return err
	}

	// Keyset pagination: a snapshot OFFSET scan would degrade on large
	// tables and misbehave under concurrent inserts.
	lastId := int64(0)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		query := fmt.Sprintf(
			"SELECT %s FROM jobs WHERE deleted = 0 AND status = ? AND id > ? ORDER BY id LIMIT ?",
			jobColumns,
		)
		rows, err := db.QueryContext(ctx, query, int(core.JobStatusOpen), lastId, batchSize)
		if err != nil {
			return fmt.Errorf("streaming visible jobs: %w", err)
		}

		batch := make([]*core.Job, 0, batchSize)
		for rows.Next() {
			job, err := scanJob(rows)
			if err != nil {
				rows.Close()
				return err
			}
			batch = append(batch, job)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		if len(batch) == 0 {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		lastId = int64(batch[len(batch)-1].Id)
		if len(batch) < batchSize {
			return nil
		}
	}
}

func (r *jobStore) Create(ctx context.Context, job *core.Job) (*core.Job, error) {
	if err := core.ValidateJob(job); err != nil {
		return nil, err
	}
	db, err := r.store.handle()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if job.PostedAt.IsZero() {
		job.PostedAt = now
	}
	job.UpdatedAt = now

	res, err := db.ExecContext(ctx, `INSERT INTO jobs (
		title, description, requirements, benefits, company_name,
		province_code, category_id, employment_type, salary_min, salary_max,
		experience_years, status, urgent, deleted, views, applies, posted_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.Title, job.Description, job.Requirements, job.Benefits, job.CompanyName,
		job.ProvinceCode, job.CategoryId, job.EmploymentType, job.SalaryMin, job.SalaryMax,
		job.ExperienceYears, int(job.Status), boolToInt(job.Urgent), boolToInt(job.Deleted),
		job.Views, job.Applies, job.PostedAt.UnixMicro(), job.UpdatedAt.UnixMicro(),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting job: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading inserted job id: %w", err)
	}
	job.Id = core.ID(id)
	return job, nil
}

func (r *jobStore) Update(ctx context.Context, job *core.Job) error {
	if err := core.ValidateJob(job); err != nil {
		return err
	}
	db, err := r.store.handle()
	if err != nil {
		return err
	}

	job.UpdatedAt = time.Now()

	res, err := db.ExecContext(ctx, `UPDATE jobs SET
		title = ?, description = ?, requirements = ?, benefits = ?, company_name = ?,
		province_code = ?, category_id = ?, employment_type = ?, salary_min = ?, salary_max = ?,
		experience_years = ?, status = ?, urgent = ?, deleted = ?, posted_at = ?, updated_at = ?
	WHERE id = ?`,
		job.Title, job.Description, job.Requirements, job.Benefits, job.CompanyName,
		job.ProvinceCode, job.CategoryId, job.EmploymentType, job.SalaryMin, job.SalaryMax,
		job.ExperienceYears, int(job.Status), boolToInt(job.Urgent), boolToInt(job.Deleted),
		job.PostedAt.UnixMicro(), job.UpdatedAt.UnixMicro(), int64(job.Id),
	)
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}
	return requireAffected(res)
}

func (r *jobStore) SetStatus(ctx context.Context, id core.ID, status core.JobStatus) error {
	db, err := r.store.handle()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		"UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?",
		int(status), time.Now().UnixMicro(), int64(id),
	)
	if err != nil {
		return fmt.Errorf("setting job status: %w", err)
	}
	return requireAffected(res)
}

func (r *jobStore) SoftDelete(ctx context.Context, id core.ID) error {
	db, err := r.store.handle()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		"UPDATE jobs SET deleted = 1, updated_at = ? WHERE id = ?",
		time.Now().UnixMicro(), int64(id),
	)
	if err != nil {
		return fmt.Errorf("soft-deleting job: %w", err)
	}
	return requireAffected(res)
}

func (r *jobStore) IncrementViews(ctx context.Context, id core.ID) error {
	db, err := r.store.handle()
	if err != nil {
		return err
	}
	// Deliberately leaves updated_at alone: counters must not look like
	// content edits to the index path.
	res, err := db.ExecContext(ctx,
		"UPDATE jobs SET views = views + 1 WHERE id = ?", int64(id),
	)
	if err != nil {
		return fmt.Errorf("incrementing job views: %w", err)
	}
	return requireAffected(res)
}

func (r *jobStore) Close() error {
	return r.store.Close()
}

// scanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*core.Job, error) {
	var (
		job                 core.Job
		status              int
		urgent, deleted     int
		postedAt, updatedAt int64
	)
	err := row.Scan(
		&job.Id, &job.Title, &job.Description, &job.Requirements, &job.Benefits,
		&job.CompanyName, &job.ProvinceCode, &job.CategoryId, &job.EmploymentType,
		&job.SalaryMin, &job.SalaryMax, &job.ExperienceYears, &status, &urgent,
		&deleted, &job.Views, &job.Applies, &postedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.Status = core.JobStatus(status)
	job.Urgent = urgent != 0
	job.Deleted = deleted != 0
	job.PostedAt = time.UnixMicro(postedAt)
	job.UpdatedAt = time.UnixMicro(updatedAt)
	return &job, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
