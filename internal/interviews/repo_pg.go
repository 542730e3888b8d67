package interviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"interviewhub/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

const interviewColumns = "id, job_id, scheduled_by, interview_date, interview_time, mode, meeting_link, location, status, notes, created_at, updated_at"

func (r *PGRepo) Create(ctx context.Context, iv Interview) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const query = `
INSERT INTO interviews (id, job_id, scheduled_by, interview_date, interview_time, mode, meeting_link, location, status, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = tx.ExecContext(ctx, query,
		iv.ID, iv.JobID, iv.ScheduledBy, iv.Date, iv.Time, string(iv.Mode),
		db.NullString(iv.MeetingLink), db.NullString(iv.Location), string(iv.Status), db.NullString(iv.Notes),
		iv.CreatedAt, iv.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if err := insertPanel(ctx, tx, iv.ID, iv.InterviewerIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepo) Update(ctx context.Context, iv Interview) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const query = `
UPDATE interviews SET
  interview_date = $2,
  interview_time = $3,
  mode = $4,
  meeting_link = $5,
  location = $6,
  status = $7,
  notes = $8,
  updated_at = $9
WHERE id = $1`
	res, err := tx.ExecContext(ctx, query,
		iv.ID, iv.Date, iv.Time, string(iv.Mode),
		db.NullString(iv.MeetingLink), db.NullString(iv.Location), string(iv.Status), db.NullString(iv.Notes),
		iv.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM interview_interviewers WHERE interview_id = $1`, iv.ID); err != nil {
		return err
	}
	if err := insertPanel(ctx, tx, iv.ID, iv.InterviewerIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	if !db.ValidID(id) {
		return ErrNotFound
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM interviews WHERE id = $1`, id)
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

func (r *PGRepo) Get(ctx context.Context, id string) (Interview, error) {
	list, err := r.List(ctx, Filter{IDs: []string{id}})
	if err != nil {
		return Interview{}, err
	}
	if len(list) == 0 {
		return Interview{}, ErrNotFound
	}
	return list[0], nil
}

func (r *PGRepo) List(ctx context.Context, filter Filter) ([]Interview, error) {
	if filter.IDs != nil {
		filter.IDs = db.ValidIDs(filter.IDs)
		if len(filter.IDs) == 0 {
			return []Interview{}, nil
		}
	}
	builder := db.SQL.Select(interviewColumns).From("interviews").OrderBy("interview_date DESC")
	if filter.IDs != nil {
		builder = builder.Where(sq.Eq{"id": filter.IDs})
	}
	if filter.ScheduledBy != "" {
		builder = builder.Where(sq.Eq{"scheduled_by": filter.ScheduledBy})
	}
	if filter.JobID != "" {
		builder = builder.Where(sq.Eq{"job_id": filter.JobID})
	}
	if filter.InterviewerID != "" {
		builder = builder.Where(sq.Expr("id IN (SELECT interview_id FROM interview_interviewers WHERE interviewer_id = ?)", filter.InterviewerID))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := []Interview{}
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := r.loadPanels(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepo) loadPanels(ctx context.Context, list []Interview) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, len(list))
	index := make(map[string]int, len(list))
	for i, iv := range list {
		ids[i] = iv.ID
		index[iv.ID] = i
		list[i].InterviewerIDs = []string{}
	}
	query, args, err := db.SQL.
		Select("interview_id", "interviewer_id").
		From("interview_interviewers").
		Where(sq.Eq{"interview_id": ids}).
		OrderBy("interview_id", "position").
		ToSql()
	if err != nil {
		return err
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("load interviewers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var interviewID, interviewerID string
		if err := rows.Scan(&interviewID, &interviewerID); err != nil {
			return err
		}
		if i, ok := index[interviewID]; ok {
			list[i].InterviewerIDs = append(list[i].InterviewerIDs, interviewerID)
		}
	}
	return rows.Err()
}

func insertPanel(ctx context.Context, tx *sql.Tx, interviewID string, interviewerIDs []string) error {
	if len(interviewerIDs) == 0 {
		return nil
	}
	builder := db.SQL.Insert("interview_interviewers").Columns("interview_id", "interviewer_id", "position")
	for i, id := range interviewerIDs {
		builder = builder.Values(interviewID, id, i)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert interviewers: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInterview(s scanner) (Interview, error) {
	var iv Interview
	var mode, status string
	var link, location, notes sql.NullString
	err := s.Scan(
		&iv.ID, &iv.JobID, &iv.ScheduledBy, &iv.Date, &iv.Time, &mode,
		&link, &location, &status, &notes, &iv.CreatedAt, &iv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Interview{}, ErrNotFound
		}
		return Interview{}, err
	}
	iv.Mode = Mode(mode)
	iv.Status = Status(status)
	iv.MeetingLink = link.String
	iv.Location = location.String
	iv.Notes = notes.String
	return iv, nil
}

var _ Repo = (*PGRepo)(nil)
