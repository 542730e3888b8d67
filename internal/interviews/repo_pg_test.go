package interviews

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

var interviewRowColumns = []string{"id", "job_id", "scheduled_by", "interview_date", "interview_time", "mode", "meeting_link", "location", "status", "notes", "created_at", "updated_at"}

func TestPGRepoCreateWritesPanelInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO interviews")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO interview_interviewers (interview_id,interviewer_id,position) VALUES ($1,$2,$3),($4,$5,$6)")).
		WithArgs("iv-1", "x", 0, "iv-1", "y", 1).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	repo := &PGRepo{DB: db}
	err = repo.Create(context.Background(), Interview{
		ID: "iv-1", JobID: "job-1", ScheduledBy: "hr-1", InterviewerIDs: []string{"x", "y"},
		Date: now, Time: "10:00", Mode: ModePhone, Status: StatusScheduled, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

const (
	interviewUUID = "0b7d2f1e-3c44-4a8e-9d8f-2a6c5e1b7f01"
	missingUUID   = "0b7d2f1e-3c44-4a8e-9d8f-2a6c5e1b7fff"
)

func TestPGRepoGetLoadsPanel(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM interviews WHERE id IN ($1) ORDER BY interview_date DESC")).
		WithArgs(interviewUUID).
		WillReturnRows(sqlmock.NewRows(interviewRowColumns).
			AddRow(interviewUUID, "job-1", "hr-1", now, "10:00", "Video Call", "https://meet", nil, "Scheduled", nil, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM interview_interviewers WHERE interview_id IN ($1) ORDER BY interview_id, position")).
		WithArgs(interviewUUID).
		WillReturnRows(sqlmock.NewRows([]string{"interview_id", "interviewer_id"}).
			AddRow(interviewUUID, "x").
			AddRow(interviewUUID, "y"))

	repo := &PGRepo{DB: db}
	iv, err := repo.Get(context.Background(), interviewUUID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if iv.Mode != ModeVideoCall || iv.MeetingLink != "https://meet" || iv.Location != "" {
		t.Fatalf("unexpected interview: %+v", iv)
	}
	if len(iv.InterviewerIDs) != 2 || iv.InterviewerIDs[0] != "x" || iv.InterviewerIDs[1] != "y" {
		t.Fatalf("unexpected panel: %v", iv.InterviewerIDs)
	}
}

func TestPGRepoGetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM interviews WHERE id IN ($1)")).
		WithArgs(missingUUID).
		WillReturnRows(sqlmock.NewRows(interviewRowColumns))

	repo := &PGRepo{DB: db}
	if _, err := repo.Get(context.Background(), missingUUID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoMalformedIDIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	if _, err := repo.Get(context.Background(), "abc"); err != ErrNotFound {
		t.Fatalf("get: expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(context.Background(), "abc"); err != ErrNotFound {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no query expected: %v", err)
	}
}

func TestPGRepoDeleteReferencedIsInUse(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM interviews WHERE id = $1")).
		WithArgs(interviewUUID).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "applications_interview_id_fkey"})

	repo := &PGRepo{DB: db}
	if err := repo.Delete(context.Background(), interviewUUID); err != ErrInUse {
		t.Fatalf("expected ErrInUse, got %v", err)
	}
}

func TestPGRepoListForInterviewer(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id IN (SELECT interview_id FROM interview_interviewers WHERE interviewer_id = $1)")).
		WithArgs("x").
		WillReturnRows(sqlmock.NewRows(interviewRowColumns))

	repo := &PGRepo{DB: db}
	list, err := repo.List(context.Background(), Filter{InterviewerID: "x"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list")
	}
}
