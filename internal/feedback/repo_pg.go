package feedback

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"interviewhub/internal/shared/storage/db"
)

const uniqueApplicationInterviewer = "feedback_application_interviewer_key"

type PGRepo struct {
	DB *sql.DB
}

const feedbackColumns = "id, application_id, interview_id, interviewer_id, technical_skills, communication, problem_solving, culture_fit, overall_rating, comments, recommendation, created_at"

func (r *PGRepo) Create(ctx context.Context, fb Feedback) error {
	const query = `
INSERT INTO feedback (id, application_id, interview_id, interviewer_id, technical_skills, communication, problem_solving, culture_fit, overall_rating, comments, recommendation, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.DB.ExecContext(ctx, query,
		fb.ID,
		fb.ApplicationID,
		fb.InterviewID,
		fb.InterviewerID,
		nullScore(fb.TechnicalSkills),
		nullScore(fb.CommunicationSkills),
		nullScore(fb.ProblemSolving),
		nullScore(fb.CultureFit),
		fb.OverallRating,
		db.NullString(fb.Comments),
		string(fb.Recommendation),
		fb.CreatedAt,
	)
	if db.IsUniqueViolation(err, uniqueApplicationInterviewer) {
		return ErrAlreadySubmitted
	}
	return err
}

func (r *PGRepo) FindByApplicationInterviewer(ctx context.Context, applicationID, interviewerID string) (Feedback, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+feedbackColumns+` FROM feedback WHERE application_id = $1 AND interviewer_id = $2`,
		applicationID, interviewerID)
	return scanFeedback(row)
}

func (r *PGRepo) List(ctx context.Context, filter Filter) ([]Feedback, error) {
	builder := db.SQL.Select(feedbackColumns).From("feedback").OrderBy("created_at DESC")
	if filter.ApplicationID != "" {
		builder = builder.Where(sq.Eq{"application_id": filter.ApplicationID})
	}
	if filter.InterviewerID != "" {
		builder = builder.Where(sq.Eq{"interviewer_id": filter.InterviewerID})
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

	out := []Feedback{}
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeedback(s scanner) (Feedback, error) {
	var fb Feedback
	var recommendation string
	var technical, communication, problemSolving, cultureFit sql.NullInt32
	var comments sql.NullString
	err := s.Scan(
		&fb.ID,
		&fb.ApplicationID,
		&fb.InterviewID,
		&fb.InterviewerID,
		&technical,
		&communication,
		&problemSolving,
		&cultureFit,
		&fb.OverallRating,
		&comments,
		&recommendation,
		&fb.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Feedback{}, ErrNotFound
		}
		return Feedback{}, err
	}
	fb.TechnicalSkills = scoreOf(technical)
	fb.CommunicationSkills = scoreOf(communication)
	fb.ProblemSolving = scoreOf(problemSolving)
	fb.CultureFit = scoreOf(cultureFit)
	fb.Comments = comments.String
	fb.Recommendation = Recommendation(recommendation)
	return fb, nil
}

func nullScore(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func scoreOf(v sql.NullInt32) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int32)
	return &n
}

var _ Repo = (*PGRepo)(nil)
