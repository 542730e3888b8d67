package interviews

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Interview
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]Interview)}
}

func (r *MemoryRepo) Create(ctx context.Context, iv Interview) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.items[iv.ID] = stored(iv)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Interview, error) {
	if err := ctx.Err(); err != nil {
		return Interview{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	iv, ok := r.items[id]
	if !ok {
		return Interview{}, ErrNotFound
	}
	return stored(iv), nil
}

func (r *MemoryRepo) Update(ctx context.Context, iv Interview) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[iv.ID]; !ok {
		return ErrNotFound
	}
	r.items[iv.ID] = stored(iv)
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, filter Filter) ([]Interview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var allowed map[string]struct{}
	if filter.IDs != nil {
		allowed = make(map[string]struct{}, len(filter.IDs))
		for _, id := range filter.IDs {
			allowed[id] = struct{}{}
		}
	}

	r.mu.RLock()
	out := make([]Interview, 0, len(r.items))
	for _, iv := range r.items {
		if allowed != nil {
			if _, ok := allowed[iv.ID]; !ok {
				continue
			}
		}
		if filter.ScheduledBy != "" && iv.ScheduledBy != filter.ScheduledBy {
			continue
		}
		if filter.JobID != "" && iv.JobID != filter.JobID {
			continue
		}
		if filter.InterviewerID != "" && !iv.HasInterviewer(filter.InterviewerID) {
			continue
		}
		out = append(out, stored(iv))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// stored strips populated references and copies the panel slice.
func stored(iv Interview) Interview {
	iv.InterviewerIDs = append([]string(nil), iv.InterviewerIDs...)
	iv.Interviewers = nil
	iv.Job = nil
	iv.Scheduler = nil
	return iv
}

var _ Repo = (*MemoryRepo)(nil)
