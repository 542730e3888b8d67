package applications

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"interviewhub/internal/shared/storage/db"
)

const uniqueJobApplicant = "applications_job_applicant_key"

type PGRepo struct {
	DB *sql.DB
}

const applicationColumns = "id, job_id, applicant_id, resume_key, resume_file_name, resume_content_type, resume_size_bytes, cover_letter, status, interview_id, applied_at, created_at, updated_at"

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO applications (id, job_id, applicant_id, resume_key, resume_file_name, resume_content_type, resume_size_bytes, cover_letter, status, interview_id, applied_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.DB.ExecContext(ctx, query,
		app.ID,
		app.JobID,
		app.ApplicantID,
		app.Resume.Key,
		db.NullString(app.Resume.FileName),
		db.NullString(app.Resume.ContentType),
		app.Resume.SizeBytes,
		db.NullString(app.CoverLetter),
		string(app.Status),
		db.NullString(app.InterviewID),
		app.AppliedAt,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if db.IsUniqueViolation(err, uniqueJobApplicant) {
		return ErrAlreadyApplied
	}
	return err
}

func (r *PGRepo) Get(ctx context.Context, id string) (Application, error) {
	if !db.ValidID(id) {
		return Application{}, ErrNotFound
	}
	row := r.DB.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (r *PGRepo) FindByJobApplicant(ctx context.Context, jobID, applicantID string) (Application, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 AND applicant_id = $2`,
		jobID, applicantID)
	return scanApplication(row)
}

func (r *PGRepo) UpdateStatus(ctx context.Context, app Application) error {
	const query = `
UPDATE applications SET
  status = $2,
  interview_id = $3,
  updated_at = $4
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, app.ID, string(app.Status), db.NullString(app.InterviewID), app.UpdatedAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) List(ctx context.Context, filter Filter) ([]Application, error) {
	builder := db.SQL.Select(applicationColumns).From("applications").OrderBy("applied_at DESC")
	if filter.JobID != "" {
		builder = builder.Where(sq.Eq{"job_id": filter.JobID})
	}
	if filter.ApplicantID != "" {
		builder = builder.Where(sq.Eq{"applicant_id": filter.ApplicantID})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": string(filter.Status)})
	}
	if filter.InterviewID != "" {
		builder = builder.Where(sq.Eq{"interview_id": filter.InterviewID})
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

	out := []Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

func (r *PGRepo) InterviewIDsForApplicant(ctx context.Context, applicantID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT DISTINCT interview_id FROM applications WHERE applicant_id = $1 AND interview_id IS NOT NULL`,
		applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(s scanner) (Application, error) {
	var app Application
	var status string
	var fileName, contentType, coverLetter, interviewID sql.NullString
	var size sql.NullInt64
	err := s.Scan(
		&app.ID,
		&app.JobID,
		&app.ApplicantID,
		&app.Resume.Key,
		&fileName,
		&contentType,
		&size,
		&coverLetter,
		&status,
		&interviewID,
		&app.AppliedAt,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	app.Status = Status(status)
	app.Resume.FileName = fileName.String
	app.Resume.ContentType = contentType.String
	app.Resume.SizeBytes = size.Int64
	app.CoverLetter = coverLetter.String
	app.InterviewID = interviewID.String
	return app, nil
}

var _ Repo = (*PGRepo)(nil)
