package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"interviewhub/internal/applications"
	"interviewhub/internal/interviews"
	"interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/metrics"
	"interviewhub/internal/shared/telemetry"
	"interviewhub/internal/users"
)

type ApplicationLookup interface {
	Lookup(ctx context.Context, id string) (applications.Application, error)
	// Get applies the reader's visibility rules and populates references.
	Get(ctx context.Context, actor auth.Actor, id string) (applications.Application, error)
}

type InterviewLookup interface {
	Lookup(ctx context.Context, id string) (interviews.Interview, error)
}

type UserLookup interface {
	ListByIDs(ctx context.Context, ids []string) ([]users.User, error)
}

type Service struct {
	Repo         Repo
	Applications ApplicationLookup
	Interviews   InterviewLookup
	Users        UserLookup

	now   func() time.Time
	newID func() string
}

func NewService(repo Repo, appLookup ApplicationLookup, interviewLookup InterviewLookup, userLookup UserLookup) *Service {
	return &Service{
		Repo:         repo,
		Applications: appLookup,
		Interviews:   interviewLookup,
		Users:        userLookup,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

type SubmitInput struct {
	ApplicationID       string
	InterviewID         string
	TechnicalSkills     *int
	CommunicationSkills *int
	ProblemSolving      *int
	CultureFit          *int
	OverallRating       *int
	Comments            string
	Recommendation      string
}

// Submit records the interviewer's evaluation of an application. Each
// interviewer gets one submission per application.
func (s *Service) Submit(ctx context.Context, actor auth.Actor, in SubmitInput) (Feedback, error) {
	if err := actor.Require(auth.RoleInterviewer); err != nil {
		return Feedback{}, err
	}
	app, err := s.Applications.Lookup(ctx, strings.TrimSpace(in.ApplicationID))
	if err != nil {
		return Feedback{}, err
	}
	iv, err := s.Interviews.Lookup(ctx, strings.TrimSpace(in.InterviewID))
	if err != nil {
		return Feedback{}, err
	}
	if iv.JobID != app.JobID {
		return Feedback{}, ErrInterviewMismatch
	}
	if in.OverallRating == nil {
		return Feedback{}, ErrRatingRequired
	}
	for _, score := range []*int{in.TechnicalSkills, in.CommunicationSkills, in.ProblemSolving, in.CultureFit, in.OverallRating} {
		if score != nil && (*score < MinScore || *score > MaxScore) {
			return Feedback{}, ErrScoreOutOfRange
		}
	}
	recommendation, ok := ParseRecommendation(in.Recommendation)
	if !ok {
		return Feedback{}, ErrInvalidRecommendation
	}

	if _, err := s.Repo.FindByApplicationInterviewer(ctx, app.ID, actor.ID); err == nil {
		return Feedback{}, ErrAlreadySubmitted
	} else if !errors.Is(err, ErrNotFound) {
		return Feedback{}, err
	}

	fb := Feedback{
		ID:                  s.newID(),
		ApplicationID:       app.ID,
		InterviewID:         iv.ID,
		InterviewerID:       actor.ID,
		TechnicalSkills:     in.TechnicalSkills,
		CommunicationSkills: in.CommunicationSkills,
		ProblemSolving:      in.ProblemSolving,
		CultureFit:          in.CultureFit,
		OverallRating:       *in.OverallRating,
		Comments:            strings.TrimSpace(in.Comments),
		Recommendation:      recommendation,
		CreatedAt:           s.now().UTC(),
	}
	if err := s.Repo.Create(ctx, fb); err != nil {
		return Feedback{}, err
	}
	metrics.IncFeedbackSubmitted()
	telemetry.Info("feedback.submitted", map[string]any{
		"feedback_id":    fb.ID,
		"application_id": app.ID,
		"interview_id":   iv.ID,
		"interviewer_id": actor.ID,
		"recommendation": string(recommendation),
	})

	list := []Feedback{fb}
	s.populate(ctx, actor, list, true)
	return list[0], nil
}

// ForApplication lists all feedback on an application, newest first.
func (s *Service) ForApplication(ctx context.Context, actor auth.Actor, applicationID string) ([]Feedback, error) {
	app, err := s.Applications.Get(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}
	list, err := s.Repo.List(ctx, Filter{ApplicationID: app.ID})
	if err != nil {
		return nil, err
	}
	s.populate(ctx, actor, list, false)
	return list, nil
}

// Mine lists the interviewer's own feedback with the applications populated.
func (s *Service) Mine(ctx context.Context, actor auth.Actor) ([]Feedback, error) {
	if err := actor.Require(auth.RoleInterviewer); err != nil {
		return nil, err
	}
	list, err := s.Repo.List(ctx, Filter{InterviewerID: actor.ID})
	if err != nil {
		return nil, err
	}
	s.populate(ctx, actor, list, true)
	return list, nil
}

// ReferencesInterview reports whether any feedback was recorded against the interview.
func (s *Service) ReferencesInterview(ctx context.Context, interviewID string) (bool, error) {
	list, err := s.Repo.List(ctx, Filter{InterviewID: interviewID})
	if err != nil {
		return false, err
	}
	return len(list) > 0, nil
}

func (s *Service) populate(ctx context.Context, actor auth.Actor, list []Feedback, withApplication bool) {
	if len(list) == 0 {
		return
	}
	ids := []string{}
	seen := map[string]struct{}{}
	for _, fb := range list {
		if _, ok := seen[fb.InterviewerID]; !ok {
			seen[fb.InterviewerID] = struct{}{}
			ids = append(ids, fb.InterviewerID)
		}
	}
	contacts := map[string]users.Contact{}
	if found, err := s.Users.ListByIDs(ctx, ids); err == nil {
		for _, u := range found {
			contacts[u.ID] = u.Contact()
		}
	} else {
		telemetry.Warn("feedback.populate_failed", map[string]any{"ref": "interviewer", "error": err})
	}

	apps := map[string]*applications.Application{}
	for i := range list {
		fb := &list[i]
		if c, ok := contacts[fb.InterviewerID]; ok {
			c := c
			fb.Interviewer = &c
		}
		if !withApplication {
			continue
		}
		app, ok := apps[fb.ApplicationID]
		if !ok {
			if found, err := s.Applications.Get(ctx, actor, fb.ApplicationID); err == nil {
				app = &found
			}
			apps[fb.ApplicationID] = app
		}
		fb.Application = app
	}
}
