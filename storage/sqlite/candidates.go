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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hirelink/searchcore/core"
	"github.com/hirelink/searchcore/storage"
)

const candidateColumns = `id, full_name, job_title, skills, summary, province_code,
	category_id, expected_salary, experience_years, status, profile_visible,
	deleted, created_at, updated_at`

type candidateStore struct {
	store *Store
}

func (r *candidateStore) GetByIds(ctx context.Context, ids []core.ID) ([]*core.Candidate, error) {
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

	query := fmt.Sprintf("SELECT %s FROM candidates WHERE id IN (%s)",
		candidateColumns, placeholders(len(ids)))
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying candidates by ids: %w", err)
	}
	defer rows.Close()

	var candidates []*core.Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, rows.Err()
}

func (r *candidateStore) GetForIndexing(ctx context.Context, id core.ID) (*core.Candidate, error) {
	db, err := r.store.handle()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM candidates WHERE id = ?", candidateColumns)
	row := db.QueryRowContext(ctx, query, int64(id))

	candidate, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

func (r *candidateStore) GetAllVisible(ctx context.Context, batchSize int, fn func([]*core.Candidate) error) error {
	if batchSize <= 0 {
		return storage.ErrInvalidBatchSize
	}
	db, err := r.store.handle()
	if err != nil {
		return err
	}

	lastId := int64(0)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		query := fmt.Sprintf(
			"SELECT %s FROM candidates WHERE deleted = 0 AND status = ? AND profile_visible = 1 AND id > ? ORDER BY id LIMIT ?",
			candidateColumns,
		)
		rows, err := db.QueryContext(ctx, query, int(core.CandidateStatusActive), lastId, batchSize)
		if err != nil {
			return fmt.Errorf("streaming visible candidates: %w", err)
		}

		batch := make([]*core.Candidate, 0, batchSize)
		for rows.Next() {
			candidate, err := scanCandidate(rows)
			if err != nil {
				rows.Close()
				return err
			}
			batch = append(batch, candidate)
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

func (r *candidateStore) Create(ctx context.Context, candidate *core.Candidate) (*core.Candidate, error) {
	if err := core.ValidateCandidate(candidate); err != nil {
		return nil, err
	}
	db, err := r.store.handle()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = now
	}
	candidate.UpdatedAt = now

	skills, err := marshalSkills(candidate.Skills)
	if err != nil {
		return nil, err
	}

	res, err := db.ExecContext(ctx, `INSERT INTO candidates (
		full_name, job_title, skills, summary, province_code, category_id,
		expected_salary, experience_years, status, profile_visible, deleted,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		candidate.FullName, candidate.JobTitle, skills, candidate.Summary,
		candidate.ProvinceCode, candidate.CategoryId, candidate.ExpectedSalary,
		candidate.ExperienceYears, int(candidate.Status),
		boolToInt(candidate.ProfileVisible), boolToInt(candidate.Deleted),
		candidate.CreatedAt.UnixMicro(), candidate.UpdatedAt.UnixMicro(),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting candidate: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading inserted candidate id: %w", err)
	}
	candidate.Id = core.ID(id)
	return candidate, nil
}

func (r *candidateStore) Update(ctx context.Context, candidate *core.Candidate) error {
	if err := core.ValidateCandidate(candidate); err != nil {
		return err
	}
	db, err := r.store.handle()
	if err != nil {
		return err
	}

	candidate.UpdatedAt = time.Now()

	skills, err := marshalSkills(candidate.Skills)
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `UPDATE candidates SET
		full_name = ?, job_title = ?, skills = ?, summary = ?, province_code = ?,
		category_id = ?, expected_salary = ?, experience_years = ?, status = ?,
		profile_visible = ?, deleted = ?, updated_at = ?
	WHERE id = ?`,
		candidate.FullName, candidate.JobTitle, skills, candidate.Summary,
		candidate.ProvinceCode, candidate.CategoryId, candidate.ExpectedSalary,
		candidate.ExperienceYears, int(candidate.Status),
		boolToInt(candidate.ProfileVisible), boolToInt(candidate.Deleted),
		candidate.UpdatedAt.UnixMicro(), int64(candidate.Id),
	)
	if err != nil {
		return fmt.Errorf("updating candidate: %w", err)
	}
	return requireAffected(res)
}

func (r *candidateStore) SetVisibility(ctx context.Context, id core.ID, visible bool) error {
	db, err := r.store.handle()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		"UPDATE candidates SET profile_visible = ?, updated_at = ? WHERE id = ?",
		boolToInt(visible), time.Now().UnixMicro(), int64(id),
	)
	if err != nil {
		return fmt.Errorf("setting candidate visibility: %w", err)
	}
	return requireAffected(res)
}

func (r *candidateStore) SoftDelete(ctx context.Context, id core.ID) error {
	db, err := r.store.handle()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		"UPDATE candidates SET deleted = 1, updated_at = ? WHERE id = ?",
		time.Now().UnixMicro(), int64(id),
	)
	if err != nil {
		return fmt.Errorf("soft-deleting candidate: %w", err)
	}
	return requireAffected(res)
}

func (r *candidateStore) Close() error {
	return r.store.Close()
}

func scanCandidate(row scanner) (*core.Candidate, error) {
	var (
		candidate            core.Candidate
		skills               string
		status               int
		visible, deleted     int
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&candidate.Id, &candidate.FullName, &candidate.JobTitle, &skills,
		&candidate.Summary, &candidate.ProvinceCode, &candidate.CategoryId,
		&candidate.ExpectedSalary, &candidate.ExperienceYears, &status,
		&visible, &deleted, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if skills != "" {
		if err := json.Unmarshal([]byte(skills), &candidate.Skills); err != nil {
			return nil, fmt.Errorf("decoding candidate skills: %w", err)
		}
	}
	candidate.Status = core.CandidateStatus(status)
	candidate.ProfileVisible = visible != 0
	candidate.Deleted = deleted != 0
	candidate.CreatedAt = time.UnixMicro(createdAt)
	candidate.UpdatedAt = time.UnixMicro(updatedAt)
	return &candidate, nil
}

func marshalSkills(skills []string) (string, error) {
	if len(skills) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(skills)
	if err != nil {
		return "", fmt.Errorf("encoding candidate skills: %w", err)
	}
	return string(data), nil
}
