package interviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"interviewhub/internal/jobs"
	"interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/errs"
	"interviewhub/internal/shared/metrics"
	"interviewhub/internal/shared/telemetry"
	"interviewhub/internal/users"
)

type JobLookup interface {
	Lookup(ctx context.Context, id string) (jobs.Job, error)
}

type UserLookup interface {
	ListByIDs(ctx context.Context, ids []string) ([]users.User, error)
}

// ApplicantLinks lists the interviews linked to a student's applications.
type ApplicantLinks interface {
	InterviewIDsForApplicant(ctx context.Context, applicantID string) ([]string, error)
}

// Dependents reports whether other records still reference an interview.
type Dependents interface {
	ReferencesInterview(ctx context.Context, interviewID string) (bool, error)
}

type Service struct {
	Repo  Repo
	Jobs  JobLookup
	Users UserLookup
	// Links is set once the application ledger exists; without it students see no interviews.
	Links      ApplicantLinks
	Dependents []Dependents

	now   func() time.Time
	newID func() string
}

func NewService(repo Repo, jobLookup JobLookup, userLookup UserLookup) *Service {
	return &Service{
		Repo:  repo,
		Jobs:  jobLookup,
		Users: userLookup,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

type CreateInput struct {
	JobID        string
	Interviewers []string
	Date         string
	Time         string
	Mode         string
	MeetingLink  string
	Location     string
	Notes        string
}

// Create schedules an interview for a job with a non-empty panel of interviewers.
func (s *Service) Create(ctx context.Context, actor auth.Actor, in CreateInput) (Interview, error) {
	if err := actor.Require(auth.RoleHR); err != nil {
		return Interview{}, err
	}
	job, err := s.Jobs.Lookup(ctx, strings.TrimSpace(in.JobID))
	if err != nil {
		return Interview{}, err
	}
	panel, err := s.checkPanel(ctx, in.Interviewers)
	if err != nil {
		return Interview{}, err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return Interview{}, err
	}
	clock := strings.TrimSpace(in.Time)
	if clock == "" {
		return Interview{}, errs.Invalid("Time is required")
	}
	mode, ok := ParseMode(in.Mode)
	if !ok {
		return Interview{}, ErrInvalidMode
	}

	now := s.now().UTC()
	iv := Interview{
		ID:             s.newID(),
		JobID:          job.ID,
		ScheduledBy:    actor.ID,
		InterviewerIDs: ids(panel),
		Date:           date,
		Time:           clock,
		Mode:           mode,
		MeetingLink:    strings.TrimSpace(in.MeetingLink),
		Location:       strings.TrimSpace(in.Location),
		Status:         StatusScheduled,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(ctx, iv); err != nil {
		return Interview{}, err
	}
	metrics.IncInterviewScheduled()
	telemetry.Info("interviews.scheduled", map[string]any{
		"interview_id": iv.ID,
		"job_id":       job.ID,
		"panel_size":   len(panel),
		"actor_id":     actor.ID,
	})
	iv.Job = &job
	iv.Interviewers = contacts(panel)
	return iv, nil
}

// Get returns an interview with job, scheduler and interviewers populated.
func (s *Service) Get(ctx context.Context, id string) (Interview, error) {
	iv, err := s.Lookup(ctx, id)
	if err != nil {
		return Interview{}, err
	}
	list := []Interview{iv}
	if err := s.populate(ctx, list); err != nil {
		return Interview{}, err
	}
	return list[0], nil
}

// Lookup returns the stored interview without populating references.
func (s *Service) Lookup(ctx context.Context, id string) (Interview, error) {
	if strings.TrimSpace(id) == "" {
		return Interview{}, ErrNotFound
	}
	return s.Repo.Get(ctx, id)
}

// List shows the interviews relevant to the actor's role.
func (s *Service) List(ctx context.Context, actor auth.Actor) ([]Interview, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	var filter Filter
	switch actor.Role {
	case auth.RoleHR:
		filter.ScheduledBy = actor.ID
	case auth.RoleInterviewer:
		filter.InterviewerID = actor.ID
	case auth.RoleStudent:
		filter.IDs = []string{}
		if s.Links != nil {
			linked, err := s.Links.InterviewIDsForApplicant(ctx, actor.ID)
			if err != nil {
				return nil, err
			}
			filter.IDs = append(filter.IDs, linked...)
		}
	default:
		return nil, errs.Forbidden("unknown role")
	}
	return s.list(ctx, filter)
}

// Mine lists the interviews the interviewer sits on.
func (s *Service) Mine(ctx context.Context, actor auth.Actor) ([]Interview, error) {
	if err := actor.Require(auth.RoleInterviewer); err != nil {
		return nil, err
	}
	return s.list(ctx, Filter{InterviewerID: actor.ID})
}

type UpdateInput struct {
	Interviewers *[]string
	Date         *string
	Time         *string
	Mode         *string
	MeetingLink  *string
	Location     *string
	Status       *string
	Notes        *string
}

// Update edits an interview. Only the scheduling HR user may do so.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, in UpdateInput) (Interview, error) {
	iv, err := s.owned(ctx, actor, id)
	if err != nil {
		return Interview{}, err
	}
	if in.Interviewers != nil {
		panel, err := s.checkPanel(ctx, *in.Interviewers)
		if err != nil {
			return Interview{}, err
		}
		iv.InterviewerIDs = ids(panel)
	}
	if in.Date != nil {
		date, err := parseDate(*in.Date)
		if err != nil {
			return Interview{}, err
		}
		iv.Date = date
	}
	if in.Time != nil {
		clock := strings.TrimSpace(*in.Time)
		if clock == "" {
			return Interview{}, errs.Invalid("Time is required")
		}
		iv.Time = clock
	}
	if in.Mode != nil {
		mode, ok := ParseMode(*in.Mode)
		if !ok {
			return Interview{}, ErrInvalidMode
		}
		iv.Mode = mode
	}
	if in.MeetingLink != nil {
		iv.MeetingLink = strings.TrimSpace(*in.MeetingLink)
	}
	if in.Location != nil {
		iv.Location = strings.TrimSpace(*in.Location)
	}
	if in.Status != nil {
		status, ok := ParseStatus(*in.Status)
		if !ok {
			return Interview{}, ErrInvalidStatus
		}
		iv.Status = status
	}
	if in.Notes != nil {
		iv.Notes = strings.TrimSpace(*in.Notes)
	}
	iv.UpdatedAt = s.now().UTC()
	if err := s.Repo.Update(ctx, iv); err != nil {
		return Interview{}, err
	}
	list := []Interview{iv}
	if err := s.populate(ctx, list); err != nil {
		return Interview{}, err
	}
	return list[0], nil
}

// Delete removes an interview. Only the scheduling HR user may do so, and only
// while no application or feedback references it; linked interviews are
// cancelled through Update instead.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	iv, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	for _, d := range s.Dependents {
		used, err := d.ReferencesInterview(ctx, iv.ID)
		if err != nil {
			return err
		}
		if used {
			return ErrInUse
		}
	}
	return s.Repo.Delete(ctx, iv.ID)
}

// ReferencesJob reports whether any interview is scheduled for the job.
func (s *Service) ReferencesJob(ctx context.Context, jobID string) (bool, error) {
	list, err := s.Repo.List(ctx, Filter{JobID: jobID})
	if err != nil {
		return false, err
	}
	return len(list) > 0, nil
}

func (s *Service) owned(ctx context.Context, actor auth.Actor, id string) (Interview, error) {
	if err := actor.Require(); err != nil {
		return Interview{}, err
	}
	iv, err := s.Lookup(ctx, id)
	if err != nil {
		return Interview{}, err
	}
	if iv.ScheduledBy != actor.ID {
		return Interview{}, ErrNotOwner
	}
	return iv, nil
}

func (s *Service) list(ctx context.Context, filter Filter) ([]Interview, error) {
	list, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// checkPanel dedupes the ids and requires each to be an Interviewer.
func (s *Service) checkPanel(ctx context.Context, raw []string) ([]users.User, error) {
	seen := make(map[string]struct{}, len(raw))
	wanted := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		wanted = append(wanted, id)
	}
	if len(wanted) == 0 {
		return nil, ErrNoInterviewers
	}
	found, err := s.Users.ListByIDs(ctx, wanted)
	if err != nil {
		return nil, err
	}
	if len(found) != len(wanted) {
		return nil, ErrInvalidInterviewer
	}
	for _, u := range found {
		if u.Role != auth.RoleInterviewer {
			return nil, ErrInvalidInterviewer
		}
	}
	return found, nil
}

func (s *Service) populate(ctx context.Context, list []Interview) error {
	if len(list) == 0 {
		return nil
	}
	userIDs := []string{}
	seen := map[string]struct{}{}
	add := func(id string) {
		if _, ok := seen[id]; !ok && id != "" {
			seen[id] = struct{}{}
			userIDs = append(userIDs, id)
		}
	}
	for _, iv := range list {
		add(iv.ScheduledBy)
		for _, id := range iv.InterviewerIDs {
			add(id)
		}
	}
	found, err := s.Users.ListByIDs(ctx, userIDs)
	if err != nil {
		return err
	}
	byID := make(map[string]users.Contact, len(found))
	for _, u := range found {
		byID[u.ID] = u.Contact()
	}

	jobCache := map[string]*jobs.Job{}
	for i := range list {
		iv := &list[i]
		if c, ok := byID[iv.ScheduledBy]; ok {
			c := c
			iv.Scheduler = &c
		}
		iv.Interviewers = make([]users.Contact, 0, len(iv.InterviewerIDs))
		for _, id := range iv.InterviewerIDs {
			if c, ok := byID[id]; ok {
				iv.Interviewers = append(iv.Interviewers, c)
			}
		}
		job, ok := jobCache[iv.JobID]
		if !ok {
			j, err := s.Jobs.Lookup(ctx, iv.JobID)
			switch {
			case err == nil:
				job = &j
			case errors.Is(err, jobs.ErrNotFound):
				job = nil
			default:
				return err
			}
			jobCache[iv.JobID] = job
		}
		iv.Job = job
	}
	return nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errs.Invalid("Date is required")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

func ids(list []users.User) []string {
	out := make([]string, len(list))
	for i, u := range list {
		out[i] = u.ID
	}
	return out
}

func contacts(list []users.User) []users.Contact {
	out := make([]users.Contact, len(list))
	for i, u := range list {
		out[i] = u.Contact()
	}
	return out
}
