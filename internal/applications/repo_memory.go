package applications

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Application
	pairs map[[2]string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		items: make(map[string]Application),
		pairs: make(map[[2]string]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	pair := [2]string{app.JobID, app.ApplicantID}
	if _, ok := r.pairs[pair]; ok {
		return ErrAlreadyApplied
	}
	r.items[app.ID] = bare(app)
	r.pairs[pair] = app.ID
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.items[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

func (r *MemoryRepo) FindByJobApplicant(ctx context.Context, jobID, applicantID string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.pairs[[2]string{jobID, applicantID}]
	if !ok {
		return Application{}, ErrNotFound
	}
	return r.items[id], nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[app.ID]
	if !ok {
		return ErrNotFound
	}
	current.Status = app.Status
	current.InterviewID = app.InterviewID
	current.UpdatedAt = app.UpdatedAt
	r.items[app.ID] = current
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, filter Filter) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Application, 0)
	for _, app := range r.items {
		if filter.JobID != "" && app.JobID != filter.JobID {
			continue
		}
		if filter.ApplicantID != "" && app.ApplicantID != filter.ApplicantID {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if filter.InterviewID != "" && app.InterviewID != filter.InterviewID {
			continue
		}
		out = append(out, app)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out, nil
}

func (r *MemoryRepo) InterviewIDsForApplicant(ctx context.Context, applicantID string) ([]string, error) {
	list, err := r.List(ctx, Filter{ApplicantID: applicantID})
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	out := []string{}
	for _, app := range list {
		if app.InterviewID == "" {
			continue
		}
		if _, ok := seen[app.InterviewID]; ok {
			continue
		}
		seen[app.InterviewID] = struct{}{}
		out = append(out, app.InterviewID)
	}
	return out, nil
}

func bare(app Application) Application {
	app.Job = nil
	app.Applicant = nil
	app.Interview = nil
	return app
}

var _ Repo = (*MemoryRepo)(nil)
