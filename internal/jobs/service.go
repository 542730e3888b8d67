package jobs

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/errs"
	"interviewhub/internal/users"
)

// UserLookup resolves poster references for read queries.
type UserLookup interface {
	ListByIDs(ctx context.Context, ids []string) ([]users.User, error)
}

// Dependents reports whether other records still reference a job.
type Dependents interface {
	ReferencesJob(ctx context.Context, jobID string) (bool, error)
}

type Service struct {
	Repo       Repo
	Users      UserLookup
	Dependents []Dependents

	now   func() time.Time
	newID func() string
}

func NewService(repo Repo, lookup UserLookup) *Service {
	return &Service{
		Repo:  repo,
		Users: lookup,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

type CreateInput struct {
	Title        string
	Description  string
	Company      string
	Location     string
	Type         string
	Requirements []string
	Salary       *Salary
}

// Create posts a job owned by the HR actor.
func (s *Service) Create(ctx context.Context, actor auth.Actor, in CreateInput) (Job, error) {
	if err := actor.Require(auth.RoleHR); err != nil {
		return Job{}, err
	}
	jobType, ok := ParseType(in.Type)
	if !ok {
		return Job{}, ErrInvalidType
	}
	job := Job{
		ID:           s.newID(),
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Company:      strings.TrimSpace(in.Company),
		Location:     strings.TrimSpace(in.Location),
		Type:         jobType,
		Requirements: cleanRequirements(in.Requirements),
		Salary:       in.Salary,
		PostedBy:     actor.ID,
		IsActive:     true,
	}
	if err := validate(job); err != nil {
		return Job{}, err
	}
	now := s.now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Get returns a job with its poster populated.
func (s *Service) Get(ctx context.Context, id string) (Job, error) {
	if strings.TrimSpace(id) == "" {
		return Job{}, ErrNotFound
	}
	job, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Job{}, err
	}
	list := []Job{job}
	if err := s.populate(ctx, list); err != nil {
		return Job{}, err
	}
	return list[0], nil
}

// Lookup returns the stored job without populating references.
func (s *Service) Lookup(ctx context.Context, id string) (Job, error) {
	if strings.TrimSpace(id) == "" {
		return Job{}, ErrNotFound
	}
	return s.Repo.Get(ctx, id)
}

type SearchInput struct {
	Search   string
	Type     string
	Location string
}

// Search lists active jobs for any signed-in user.
func (s *Service) Search(ctx context.Context, in SearchInput) ([]Job, error) {
	filter := Filter{
		Search:     in.Search,
		Location:   in.Location,
		ActiveOnly: true,
	}
	if strings.TrimSpace(in.Type) != "" {
		jobType, ok := ParseType(in.Type)
		if !ok {
			return nil, ErrInvalidType
		}
		filter.Type = jobType
	}
	list, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Mine lists every job the HR actor posted, active or not.
func (s *Service) Mine(ctx context.Context, actor auth.Actor) ([]Job, error) {
	if err := actor.Require(auth.RoleHR); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, Filter{PostedBy: actor.ID})
}

type UpdateInput struct {
	Title        *string
	Description  *string
	Company      *string
	Location     *string
	Type         *string
	Requirements *[]string
	Salary       *Salary
	IsActive     *bool
}

// Update applies a partial edit. Only the posting HR user may edit.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, in UpdateInput) (Job, error) {
	job, err := s.owned(ctx, actor, id)
	if err != nil {
		return Job{}, err
	}
	if in.Title != nil {
		job.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		job.Description = strings.TrimSpace(*in.Description)
	}
	if in.Company != nil {
		job.Company = strings.TrimSpace(*in.Company)
	}
	if in.Location != nil {
		job.Location = strings.TrimSpace(*in.Location)
	}
	if in.Type != nil {
		jobType, ok := ParseType(*in.Type)
		if !ok {
			return Job{}, ErrInvalidType
		}
		job.Type = jobType
	}
	if in.Requirements != nil {
		job.Requirements = cleanRequirements(*in.Requirements)
	}
	if in.Salary != nil {
		job.Salary = in.Salary
	}
	if in.IsActive != nil {
		job.IsActive = *in.IsActive
	}
	if err := validate(job); err != nil {
		return Job{}, err
	}
	job.UpdatedAt = s.now().UTC()
	if err := s.Repo.Update(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Delete removes a job nothing references yet. Jobs with applications or
// interviews are kept so their history stays intact.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	job, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	for _, d := range s.Dependents {
		used, err := d.ReferencesJob(ctx, job.ID)
		if err != nil {
			return err
		}
		if used {
			return ErrInUse
		}
	}
	return s.Repo.Delete(ctx, job.ID)
}

func (s *Service) owned(ctx context.Context, actor auth.Actor, id string) (Job, error) {
	if err := actor.Require(auth.RoleHR); err != nil {
		return Job{}, err
	}
	job, err := s.Lookup(ctx, id)
	if err != nil {
		return Job{}, err
	}
	if job.PostedBy != actor.ID {
		return Job{}, ErrNotOwner
	}
	return job, nil
}

func (s *Service) populate(ctx context.Context, list []Job) error {
	if s.Users == nil || len(list) == 0 {
		return nil
	}
	seen := map[string]struct{}{}
	ids := make([]string, 0, len(list))
	for _, j := range list {
		if _, ok := seen[j.PostedBy]; !ok {
			seen[j.PostedBy] = struct{}{}
			ids = append(ids, j.PostedBy)
		}
	}
	found, err := s.Users.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]users.Contact, len(found))
	for _, u := range found {
		byID[u.ID] = u.Contact()
	}
	for i := range list {
		if c, ok := byID[list[i].PostedBy]; ok {
			c := c
			list[i].Poster = &c
		}
	}
	return nil
}

func validate(job Job) error {
	switch {
	case job.Title == "":
		return errs.Invalid("Title is required")
	case job.Description == "":
		return errs.Invalid("Description is required")
	case job.Company == "":
		return errs.Invalid("Company is required")
	}
	if s := job.Salary; s != nil {
		if (s.Min != nil && *s.Min < 0) || (s.Max != nil && *s.Max < 0) {
			return errs.Invalid("Salary cannot be negative")
		}
		if s.Min != nil && s.Max != nil && *s.Min > *s.Max {
			return ErrInvalidRange
		}
	}
	return nil
}

func cleanRequirements(in []string) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
