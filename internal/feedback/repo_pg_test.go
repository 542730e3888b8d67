package feedback

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

var feedbackRowColumns = []string{"id", "application_id", "interview_id", "interviewer_id", "technical_skills", "communication", "problem_solving", "culture_fit", "overall_rating", "comments", "recommendation", "created_at"}

func TestPGRepoCreateMapsDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	eight := 8
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO feedback")).
		WithArgs("f1", "a1", "iv1", "x", int64(8), nil, nil, nil, int64(7), nil, "Recommend", sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "feedback_application_interviewer_key"})

	repo := &PGRepo{DB: db}
	err = repo.Create(context.Background(), Feedback{
		ID:              "f1",
		ApplicationID:   "a1",
		InterviewID:     "iv1",
		InterviewerID:   "x",
		TechnicalSkills: &eight,
		OverallRating:   7,
		Recommendation:  Recommend,
		CreatedAt:       time.Now(),
	})
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoListByInterviewer(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(feedbackRowColumns).
		AddRow("f1", "a1", "iv1", "x", int64(9), nil, int64(6), nil, int64(8), "Great", "Strongly Recommend", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM feedback WHERE interviewer_id = $1 ORDER BY created_at DESC")).
		WithArgs("x").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	list, err := repo.List(context.Background(), Filter{InterviewerID: "x"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 feedback, got %d", len(list))
	}
	fb := list[0]
	if fb.TechnicalSkills == nil || *fb.TechnicalSkills != 9 || fb.CommunicationSkills != nil {
		t.Fatalf("unexpected scores: %+v", fb)
	}
	if fb.OverallRating != 8 || fb.Recommendation != StronglyRecommend {
		t.Fatalf("unexpected feedback: %+v", fb)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoFindMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM feedback WHERE application_id = $1 AND interviewer_id = $2")).
		WithArgs("a1", "x").
		WillReturnRows(sqlmock.NewRows(feedbackRowColumns))

	repo := &PGRepo{DB: db}
	if _, err := repo.FindByApplicationInterviewer(context.Background(), "a1", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
