package feedback

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Feedback
	pairs map[[2]string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		items: make(map[string]Feedback),
		pairs: make(map[[2]string]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, fb Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	pair := [2]string{fb.ApplicationID, fb.InterviewerID}
	if _, ok := r.pairs[pair]; ok {
		return ErrAlreadySubmitted
	}
	fb.Application = nil
	fb.Interviewer = nil
	r.items[fb.ID] = fb
	r.pairs[pair] = fb.ID
	return nil
}

func (r *MemoryRepo) FindByApplicationInterviewer(ctx context.Context, applicationID, interviewerID string) (Feedback, error) {
	if err := ctx.Err(); err != nil {
		return Feedback{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.pairs[[2]string{applicationID, interviewerID}]
	if !ok {
		return Feedback{}, ErrNotFound
	}
	return r.items[id], nil
}

func (r *MemoryRepo) List(ctx context.Context, filter Filter) ([]Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Feedback, 0)
	for _, fb := range r.items {
		if filter.ApplicationID != "" && fb.ApplicationID != filter.ApplicationID {
			continue
		}
		if filter.InterviewerID != "" && fb.InterviewerID != filter.InterviewerID {
			continue
		}
		if filter.InterviewID != "" && fb.InterviewID != filter.InterviewID {
			continue
		}
		out = append(out, fb)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
