package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"interviewhub/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

const jobColumns = "id, title, description, company, location, job_type, requirements, salary_min, salary_max, posted_by, is_active, created_at, updated_at"

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	reqs, err := encodeRequirements(job.Requirements)
	if err != nil {
		return err
	}
	lo, hi := salaryArgs(job.Salary)
	const query = `
INSERT INTO jobs (id, title, description, company, location, job_type, requirements, salary_min, salary_max, posted_by, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.DB.ExecContext(ctx, query,
		job.ID, job.Title, job.Description, job.Company, job.Location, string(job.Type),
		reqs, lo, hi, job.PostedBy, job.IsActive, job.CreatedAt, job.UpdatedAt,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, id string) (Job, error) {
	if !db.ValidID(id) {
		return Job{}, ErrNotFound
	}
	row := r.DB.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJob(row)
}

func (r *PGRepo) Update(ctx context.Context, job Job) error {
	reqs, err := encodeRequirements(job.Requirements)
	if err != nil {
		return err
	}
	lo, hi := salaryArgs(job.Salary)
	const query = `
UPDATE jobs SET
  title = $2,
  description = $3,
  company = $4,
  location = $5,
  job_type = $6,
  requirements = $7,
  salary_min = $8,
  salary_max = $9,
  is_active = $10,
  updated_at = $11
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		job.ID, job.Title, job.Description, job.Company, job.Location, string(job.Type),
		reqs, lo, hi, job.IsActive, job.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	if !db.ValidID(id) {
		return ErrNotFound
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if db.IsForeignKeyViolation(err) {
		return ErrInUse
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) List(ctx context.Context, filter Filter) ([]Job, error) {
	builder := db.SQL.Select(jobColumns).From("jobs").OrderBy("created_at DESC")
	if filter.ActiveOnly {
		builder = builder.Where(sq.Eq{"is_active": true})
	}
	if filter.PostedBy != "" {
		builder = builder.Where(sq.Eq{"posted_by": filter.PostedBy})
	}
	if filter.Type != "" {
		builder = builder.Where(sq.Eq{"job_type": string(filter.Type)})
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		builder = builder.Where(sq.ILike{"location": "%" + escapeLike(loc) + "%"})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"company": pattern},
		})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (Job, error) {
	var job Job
	var jobType string
	var reqs []byte
	var lo, hi sql.NullFloat64
	err := s.Scan(
		&job.ID, &job.Title, &job.Description, &job.Company, &job.Location, &jobType,
		&reqs, &lo, &hi, &job.PostedBy, &job.IsActive, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	job.Type = Type(jobType)
	job.Requirements = []string{}
	if len(reqs) > 0 {
		if err := json.Unmarshal(reqs, &job.Requirements); err != nil {
			return Job{}, fmt.Errorf("decode requirements: %w", err)
		}
	}
	if lo.Valid || hi.Valid {
		job.Salary = &Salary{}
		if lo.Valid {
			job.Salary.Min = &lo.Float64
		}
		if hi.Valid {
			job.Salary.Max = &hi.Float64
		}
	}
	return job, nil
}

func encodeRequirements(reqs []string) (string, error) {
	if reqs == nil {
		reqs = []string{}
	}
	b, err := json.Marshal(reqs)
	if err != nil {
		return "", fmt.Errorf("encode requirements: %w", err)
	}
	return string(b), nil
}

func salaryArgs(s *Salary) (any, any) {
	if s == nil {
		return nil, nil
	}
	var lo, hi any
	if s.Min != nil {
		lo = *s.Min
	}
	if s.Max != nil {
		hi = *s.Max
	}
	return lo, hi
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ Repo = (*PGRepo)(nil)
