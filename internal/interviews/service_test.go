package interviews

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewhub/internal/jobs"
	"interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/errs"
	"interviewhub/internal/users"
)

type stubJobs map[string]jobs.Job

func (s stubJobs) Lookup(_ context.Context, id string) (jobs.Job, error) {
	j, ok := s[id]
	if !ok {
		return jobs.Job{}, jobs.ErrNotFound
	}
	return j, nil
}

type stubUsers map[string]users.User

func (s stubUsers) ListByIDs(_ context.Context, ids []string) ([]users.User, error) {
	out := []users.User{}
	for _, id := range ids {
		if u, ok := s[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type stubLinks map[string][]string

func (s stubLinks) InterviewIDsForApplicant(_ context.Context, applicantID string) ([]string, error) {
	return s[applicantID], nil
}

var (
	scheduler   = auth.Actor{ID: "hr-1", Role: auth.RoleHR}
	otherHR     = auth.Actor{ID: "hr-2", Role: auth.RoleHR}
	interviewer = auth.Actor{ID: "iv-x", Role: auth.RoleInterviewer}
	student     = auth.Actor{ID: "st-1", Role: auth.RoleStudent}
)

func newTestService() *Service {
	svc := NewService(NewMemoryRepo(),
		stubJobs{"job-1": {ID: "job-1", Title: "Engineer", Company: "Acme"}},
		stubUsers{
			"hr-1": {ID: "hr-1", Name: "Hana", Role: auth.RoleHR},
			"hr-2": {ID: "hr-2", Name: "Omar", Role: auth.RoleHR},
			"iv-x": {ID: "iv-x", Name: "Xavier", Email: "x@example.com", Role: auth.RoleInterviewer},
			"iv-y": {ID: "iv-y", Name: "Yara", Email: "y@example.com", Role: auth.RoleInterviewer},
			"st-1": {ID: "st-1", Name: "Sam", Role: auth.RoleStudent},
		})
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

func validInput() CreateInput {
	return CreateInput{
		JobID:        "job-1",
		Interviewers: []string{"iv-x", "iv-y"},
		Date:         "2024-05-10",
		Time:         "10:30",
		Mode:         "Video Call",
		MeetingLink:  "https://meet.example.com/abc",
	}
}

func TestCreatePopulatesPanelInOrder(t *testing.T) {
	svc := newTestService()

	iv, err := svc.Create(context.Background(), scheduler, validInput())
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, iv.Status)
	assert.Equal(t, []string{"iv-x", "iv-y"}, iv.InterviewerIDs)
	require.Len(t, iv.Interviewers, 2)
	assert.Equal(t, "Xavier", iv.Interviewers[0].Name)
	assert.Equal(t, "Yara", iv.Interviewers[1].Name)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), iv.Date)

	got, err := svc.Get(context.Background(), iv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Scheduler)
	assert.Equal(t, "Hana", got.Scheduler.Name)
	require.NotNil(t, got.Job)
	assert.Equal(t, "Engineer", got.Job.Title)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	in := validInput()
	in.JobID = "missing"
	_, err := svc.Create(ctx, scheduler, in)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	in = validInput()
	in.Interviewers = nil
	_, err = svc.Create(ctx, scheduler, in)
	assert.ErrorIs(t, err, ErrNoInterviewers)

	in = validInput()
	in.Interviewers = []string{"iv-x", "st-1"}
	_, err = svc.Create(ctx, scheduler, in)
	assert.ErrorIs(t, err, ErrInvalidInterviewer)

	in = validInput()
	in.Interviewers = []string{"ghost"}
	_, err = svc.Create(ctx, scheduler, in)
	assert.ErrorIs(t, err, ErrInvalidInterviewer)

	in = validInput()
	in.Mode = "Carrier pigeon"
	_, err = svc.Create(ctx, scheduler, in)
	assert.ErrorIs(t, err, ErrInvalidMode)

	in = validInput()
	in.Date = "next tuesday"
	_, err = svc.Create(ctx, scheduler, in)
	assert.ErrorIs(t, err, ErrInvalidDate)

	in = validInput()
	in.Time = ""
	_, err = svc.Create(ctx, scheduler, in)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = svc.Create(ctx, interviewer, validInput())
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestCreateDedupesInterviewers(t *testing.T) {
	svc := newTestService()
	in := validInput()
	in.Interviewers = []string{"iv-y", "iv-x", "iv-y"}

	iv, err := svc.Create(context.Background(), scheduler, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"iv-y", "iv-x"}, iv.InterviewerIDs)
}

func TestOnlySchedulerMayUpdateOrDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	iv, err := svc.Create(ctx, scheduler, validInput())
	require.NoError(t, err)
	notes := "Bring portfolio"

	for _, actor := range []auth.Actor{otherHR, interviewer, student} {
		_, err := svc.Update(ctx, actor, iv.ID, UpdateInput{Notes: &notes})
		assert.ErrorIs(t, err, errs.ErrForbidden, "update by %s", actor.ID)
		assert.ErrorIs(t, svc.Delete(ctx, actor, iv.ID), errs.ErrForbidden, "delete by %s", actor.ID)
	}

	updated, err := svc.Update(ctx, scheduler, iv.ID, UpdateInput{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)

	require.NoError(t, svc.Delete(ctx, scheduler, iv.ID))
	_, err = svc.Get(ctx, iv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateValidatesFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	iv, err := svc.Create(ctx, scheduler, validInput())
	require.NoError(t, err)

	empty := []string{}
	_, err = svc.Update(ctx, scheduler, iv.ID, UpdateInput{Interviewers: &empty})
	assert.ErrorIs(t, err, ErrNoInterviewers)

	status := "Done"
	_, err = svc.Update(ctx, scheduler, iv.ID, UpdateInput{Status: &status})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	status = "completed"
	panel := []string{"iv-y"}
	updated, err := svc.Update(ctx, scheduler, iv.ID, UpdateInput{Status: &status, Interviewers: &panel})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)
	assert.Equal(t, []string{"iv-y"}, updated.InterviewerIDs)
}

func TestListByRole(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	first, err := svc.Create(ctx, scheduler, validInput())
	require.NoError(t, err)
	in := validInput()
	in.Interviewers = []string{"iv-y"}
	second, err := svc.Create(ctx, otherHR, in)
	require.NoError(t, err)

	hrList, err := svc.List(ctx, scheduler)
	require.NoError(t, err)
	require.Len(t, hrList, 1)
	assert.Equal(t, first.ID, hrList[0].ID)

	ivList, err := svc.List(ctx, interviewer)
	require.NoError(t, err)
	require.Len(t, ivList, 1)
	assert.Equal(t, first.ID, ivList[0].ID)

	mine, err := svc.Mine(ctx, auth.Actor{ID: "iv-y", Role: auth.RoleInterviewer})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	studentList, err := svc.List(ctx, student)
	require.NoError(t, err)
	assert.Empty(t, studentList, "no links configured")

	svc.Links = stubLinks{"st-1": {second.ID}}
	studentList, err = svc.List(ctx, student)
	require.NoError(t, err)
	require.Len(t, studentList, 1)
	assert.Equal(t, second.ID, studentList[0].ID)

	_, err = svc.Mine(ctx, scheduler)
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

type stubDependents map[string]bool

func (s stubDependents) ReferencesInterview(_ context.Context, interviewID string) (bool, error) {
	return s[interviewID], nil
}

func TestDeleteKeepsLinkedInterview(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	linked, err := svc.Create(ctx, scheduler, validInput())
	require.NoError(t, err)
	spare, err := svc.Create(ctx, scheduler, validInput())
	require.NoError(t, err)
	svc.Dependents = []Dependents{stubDependents{linked.ID: true}}

	err = svc.Delete(ctx, scheduler, linked.ID)
	assert.ErrorIs(t, err, ErrInUse)
	assert.ErrorIs(t, err, errs.ErrConflict)
	_, err = svc.Lookup(ctx, linked.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, scheduler, spare.ID))
}

func TestReferencesJob(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, scheduler, validInput())
	require.NoError(t, err)

	used, err := svc.ReferencesJob(ctx, "job-1")
	require.NoError(t, err)
	assert.True(t, used)
	used, err = svc.ReferencesJob(ctx, "job-2")
	require.NoError(t, err)
	assert.False(t, used)
}
