package applications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"interviewhub/internal/interviews"
	"interviewhub/internal/jobs"
	"interviewhub/internal/notify"
	"interviewhub/internal/resumes"
	"interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/metrics"
	"interviewhub/internal/shared/telemetry"
	"interviewhub/internal/users"
)

type JobLookup interface {
	Lookup(ctx context.Context, id string) (jobs.Job, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (users.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]users.User, error)
}

type InterviewLookup interface {
	// Lookup returns the stored interview.
	Lookup(ctx context.Context, id string) (interviews.Interview, error)
	// Get returns the interview with its panel populated in order.
	Get(ctx context.Context, id string) (interviews.Interview, error)
}

// Notifier sends the two application lifecycle emails.
type Notifier interface {
	SendApplicationReceived(ctx context.Context, to notify.Person, job notify.JobSummary, applicationID, status string, appliedAt time.Time) error
	SendInterviewScheduled(ctx context.Context, to notify.Person, job notify.JobSummary, interview notify.InterviewDetails) error
}

// ResumeDiscarder removes stored resumes no application references.
type ResumeDiscarder interface {
	Discard(ctx context.Context, key string) error
}

// Service is the application ledger and its lifecycle rules. Notifications are
// handed to Runner after the write commits and never affect the result.
type Service struct {
	Repo       Repo
	Jobs       JobLookup
	Users      UserLookup
	Interviews InterviewLookup
	Notifier   Notifier
	Runner     notify.Runner
	Resumes    ResumeDiscarder

	now   func() time.Time
	newID func() string
}

func NewService(repo Repo, jobLookup JobLookup, userLookup UserLookup, interviewLookup InterviewLookup, notifier Notifier, runner notify.Runner) *Service {
	if runner == nil {
		runner = notify.Inline{}
	}
	return &Service{
		Repo:       repo,
		Jobs:       jobLookup,
		Users:      userLookup,
		Interviews: interviewLookup,
		Notifier:   notifier,
		Runner:     runner,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

type SubmitInput struct {
	JobID       string
	Resume      *resumes.Artifact
	CoverLetter string
}

// Submit records a student's application to a job. A resume uploaded by the
// same request is discarded when the submission fails; claimed objects are
// left alone since another application may already reference them.
func (s *Service) Submit(ctx context.Context, actor auth.Actor, in SubmitInput) (app Application, err error) {
	defer func() {
		if err != nil && in.Resume != nil && in.Resume.Fresh {
			s.discard(ctx, in.Resume.Key)
		}
	}()

	if err := actor.Require(auth.RoleStudent); err != nil {
		return Application{}, err
	}
	job, err := s.Jobs.Lookup(ctx, strings.TrimSpace(in.JobID))
	if err != nil {
		return Application{}, err
	}
	if _, err := s.Repo.FindByJobApplicant(ctx, job.ID, actor.ID); err == nil {
		return Application{}, ErrAlreadyApplied
	} else if !errors.Is(err, ErrNotFound) {
		return Application{}, err
	}
	if in.Resume == nil || strings.TrimSpace(in.Resume.Key) == "" {
		return Application{}, resumes.ErrMissing
	}

	now := s.now().UTC()
	app = Application{
		ID:          s.newID(),
		JobID:       job.ID,
		ApplicantID: actor.ID,
		Resume:      *in.Resume,
		CoverLetter: strings.TrimSpace(in.CoverLetter),
		Status:      StatusApplied,
		AppliedAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	app.Resume.Fresh = false
	if err := s.Repo.Create(ctx, app); err != nil {
		return Application{}, err
	}
	metrics.IncApplicationSubmitted()

	app.Job = &job
	applicant, lookupErr := s.Users.GetByID(ctx, actor.ID)
	if lookupErr == nil {
		c := applicant.Contact()
		app.Applicant = &c
		s.notifyReceived(ctx, applicant, job, app)
	} else {
		telemetry.Warn("applications.applicant_lookup_failed", map[string]any{
			"application_id": app.ID,
			"error":          lookupErr,
		})
	}
	return app, nil
}

type StatusInput struct {
	Status      string
	InterviewID string
}

// StatusChange is the outcome of a status update.
type StatusChange struct {
	Application Application
	From        Status
}

// UpdateStatus overwrites the status, and the interview reference when one is
// supplied. Scheduling an interview requires the application to end up linked
// to an interview of the same job. A supplied interview id must resolve:
// an unknown id fails the update with NotFound and leaves the application
// unchanged.
// Only the panel lookup for the notification email is best effort.
// When the call itself links an interview and the status is Interview
// Scheduled, the applicant is emailed the panel.
func (s *Service) UpdateStatus(ctx context.Context, actor auth.Actor, id string, in StatusInput) (StatusChange, error) {
	if err := actor.Require(auth.RoleHR); err != nil {
		return StatusChange{}, err
	}
	app, err := s.Lookup(ctx, id)
	if err != nil {
		return StatusChange{}, err
	}
	status, ok := ParseStatus(in.Status)
	if !ok {
		return StatusChange{}, ErrInvalidStatus
	}
	interviewID := strings.TrimSpace(in.InterviewID)
	if interviewID != "" {
		iv, err := s.Interviews.Lookup(ctx, interviewID)
		if err != nil {
			return StatusChange{}, err
		}
		if iv.JobID != app.JobID {
			return StatusChange{}, ErrInterviewMismatch
		}
		app.InterviewID = iv.ID
	}
	if status == StatusInterviewScheduled && app.InterviewID == "" {
		return StatusChange{}, ErrInterviewRequired
	}

	from := app.Status
	app.Status = status
	app.UpdatedAt = s.now().UTC()
	if err := s.Repo.UpdateStatus(ctx, app); err != nil {
		return StatusChange{}, err
	}
	metrics.IncStatusUpdate(string(status))
	telemetry.Info("applications.status_updated", map[string]any{
		"application_id": app.ID,
		"from":           string(from),
		"to":             string(status),
		"interview_id":   app.InterviewID,
		"actor_id":       actor.ID,
	})

	if status == StatusInterviewScheduled && interviewID != "" {
		s.notifyScheduled(ctx, app)
	}

	list := []Application{app}
	s.populate(ctx, list, true)
	return StatusChange{Application: list[0], From: from}, nil
}

// AssignInterview links an interview and moves the application to Interview Scheduled.
func (s *Service) AssignInterview(ctx context.Context, actor auth.Actor, id, interviewID string) (StatusChange, error) {
	if strings.TrimSpace(interviewID) == "" {
		if err := actor.Require(auth.RoleHR); err != nil {
			return StatusChange{}, err
		}
		return StatusChange{}, ErrInterviewRequired
	}
	return s.UpdateStatus(ctx, actor, id, StatusInput{
		Status:      string(StatusInterviewScheduled),
		InterviewID: interviewID,
	})
}

// Lookup returns the stored application without populating references.
func (s *Service) Lookup(ctx context.Context, id string) (Application, error) {
	if strings.TrimSpace(id) == "" {
		return Application{}, ErrNotFound
	}
	return s.Repo.Get(ctx, id)
}

// Get returns a populated application. Students may only read their own.
func (s *Service) Get(ctx context.Context, actor auth.Actor, id string) (Application, error) {
	app, err := s.readable(ctx, actor, id)
	if err != nil {
		return Application{}, err
	}
	list := []Application{app}
	s.populate(ctx, list, true)
	return list[0], nil
}

// Resume returns the resume artifact of an application for HR or its applicant.
func (s *Service) Resume(ctx context.Context, actor auth.Actor, id string) (resumes.Artifact, error) {
	if err := actor.Require(auth.RoleHR, auth.RoleStudent); err != nil {
		return resumes.Artifact{}, err
	}
	app, err := s.readable(ctx, actor, id)
	if err != nil {
		return resumes.Artifact{}, err
	}
	return app.Resume, nil
}

// Mine lists the student's applications, newest first.
func (s *Service) Mine(ctx context.Context, actor auth.Actor) ([]Application, error) {
	if err := actor.Require(auth.RoleStudent); err != nil {
		return nil, err
	}
	list, err := s.Repo.List(ctx, Filter{ApplicantID: actor.ID})
	if err != nil {
		return nil, err
	}
	s.populate(ctx, list, false)
	return list, nil
}

// ForJob lists applications to a job, optionally narrowed to one status.
func (s *Service) ForJob(ctx context.Context, actor auth.Actor, jobID, rawStatus string) ([]Application, error) {
	if err := actor.Require(auth.RoleHR); err != nil {
		return nil, err
	}
	job, err := s.Jobs.Lookup(ctx, jobID)
	if err != nil {
		return nil, err
	}
	filter := Filter{JobID: job.ID}
	if strings.TrimSpace(rawStatus) != "" {
		status, ok := ParseStatus(rawStatus)
		if !ok {
			return nil, ErrInvalidStatus
		}
		filter.Status = status
	}
	list, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, list, false)
	return list, nil
}

// ForInterview lists every application to the interview's job.
func (s *Service) ForInterview(ctx context.Context, actor auth.Actor, interviewID string) (interviews.Interview, []Application, error) {
	if err := actor.Require(auth.RoleHR, auth.RoleInterviewer); err != nil {
		return interviews.Interview{}, nil, err
	}
	iv, err := s.Interviews.Get(ctx, interviewID)
	if err != nil {
		return interviews.Interview{}, nil, err
	}
	list, err := s.Repo.List(ctx, Filter{JobID: iv.JobID})
	if err != nil {
		return interviews.Interview{}, nil, err
	}
	s.populate(ctx, list, false)
	return iv, list, nil
}

// InterviewIDsForApplicant lists interviews linked to a student's applications.
func (s *Service) InterviewIDsForApplicant(ctx context.Context, applicantID string) ([]string, error) {
	return s.Repo.InterviewIDsForApplicant(ctx, applicantID)
}

// ReferencesJob reports whether any application was made to the job.
func (s *Service) ReferencesJob(ctx context.Context, jobID string) (bool, error) {
	list, err := s.Repo.List(ctx, Filter{JobID: jobID})
	if err != nil {
		return false, err
	}
	return len(list) > 0, nil
}

// ReferencesInterview reports whether any application links the interview.
func (s *Service) ReferencesInterview(ctx context.Context, interviewID string) (bool, error) {
	list, err := s.Repo.List(ctx, Filter{InterviewID: interviewID})
	if err != nil {
		return false, err
	}
	return len(list) > 0, nil
}

func (s *Service) readable(ctx context.Context, actor auth.Actor, id string) (Application, error) {
	if err := actor.Require(); err != nil {
		return Application{}, err
	}
	app, err := s.Lookup(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if actor.Role == auth.RoleStudent && app.ApplicantID != actor.ID {
		return Application{}, ErrNotYours
	}
	return app, nil
}

func (s *Service) notifyReceived(ctx context.Context, applicant users.User, job jobs.Job, app Application) {
	if s.Notifier == nil {
		return
	}
	to := personOf(applicant)
	summary := summaryOf(job)
	fields := map[string]any{"application_id": app.ID, "job_id": job.ID}
	s.Runner.Go(ctx, "application_received", fields, func(ctx context.Context) error {
		return s.Notifier.SendApplicationReceived(ctx, to, summary, app.ID, string(app.Status), app.AppliedAt)
	})
}

// notifyScheduled resolves everything inside the task so lookup failures are
// logged with the notification rather than failing the update.
func (s *Service) notifyScheduled(ctx context.Context, app Application) {
	if s.Notifier == nil {
		return
	}
	fields := map[string]any{"application_id": app.ID, "interview_id": app.InterviewID}
	s.Runner.Go(ctx, "interview_scheduled", fields, func(ctx context.Context) error {
		applicant, err := s.Users.GetByID(ctx, app.ApplicantID)
		if err != nil {
			return err
		}
		job, err := s.Jobs.Lookup(ctx, app.JobID)
		if err != nil {
			return err
		}
		iv, err := s.Interviews.Get(ctx, app.InterviewID)
		if err != nil {
			return err
		}
		panel := make([]notify.Person, 0, len(iv.Interviewers))
		for _, c := range iv.Interviewers {
			panel = append(panel, notify.Person{Name: c.Name, Email: c.Email, Phone: c.Phone})
		}
		return s.Notifier.SendInterviewScheduled(ctx, personOf(applicant), summaryOf(job), notify.InterviewDetails{
			ID:           iv.ID,
			Date:         iv.Date,
			Time:         iv.Time,
			Mode:         string(iv.Mode),
			MeetingLink:  iv.MeetingLink,
			Location:     iv.Location,
			Notes:        iv.Notes,
			Interviewers: panel,
		})
	})
}

// populate fills job, applicant and interview references. Missing references
// are left nil; reads never fail because a referenced record went away.
func (s *Service) populate(ctx context.Context, list []Application, withPanel bool) {
	if len(list) == 0 {
		return
	}
	applicantIDs := []string{}
	seen := map[string]struct{}{}
	for _, app := range list {
		if _, ok := seen[app.ApplicantID]; !ok {
			seen[app.ApplicantID] = struct{}{}
			applicantIDs = append(applicantIDs, app.ApplicantID)
		}
	}
	contacts := map[string]users.Contact{}
	if found, err := s.Users.ListByIDs(ctx, applicantIDs); err == nil {
		for _, u := range found {
			contacts[u.ID] = u.Contact()
		}
	} else {
		telemetry.Warn("applications.populate_failed", map[string]any{"ref": "applicant", "error": err})
	}

	jobCache := map[string]*jobs.Job{}
	ivCache := map[string]*interviews.Interview{}
	for i := range list {
		app := &list[i]
		if c, ok := contacts[app.ApplicantID]; ok {
			c := c
			app.Applicant = &c
		}
		job, ok := jobCache[app.JobID]
		if !ok {
			if j, err := s.Jobs.Lookup(ctx, app.JobID); err == nil {
				job = &j
			}
			jobCache[app.JobID] = job
		}
		app.Job = job
		if app.InterviewID == "" {
			continue
		}
		iv, ok := ivCache[app.InterviewID]
		if !ok {
			var found interviews.Interview
			var err error
			if withPanel {
				found, err = s.Interviews.Get(ctx, app.InterviewID)
			} else {
				found, err = s.Interviews.Lookup(ctx, app.InterviewID)
			}
			if err == nil {
				iv = &found
			}
			ivCache[app.InterviewID] = iv
		}
		app.Interview = iv
	}
}

func (s *Service) discard(ctx context.Context, key string) {
	if s.Resumes == nil || key == "" {
		return
	}
	if err := s.Resumes.Discard(ctx, key); err != nil {
		telemetry.Warn("applications.resume_discard_failed", map[string]any{"key": key, "error": err})
	}
}

func personOf(u users.User) notify.Person {
	return notify.Person{Name: u.Name, Email: u.Email, Phone: u.Phone}
}

func summaryOf(job jobs.Job) notify.JobSummary {
	return notify.JobSummary{
		Title:    job.Title,
		Company:  job.Company,
		Location: job.Location,
		Type:     string(job.Type),
	}
}
