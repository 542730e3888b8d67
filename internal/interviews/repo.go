package interviews

import "context"

// Repo persists interviews with their ordered interviewer panel.
type Repo interface {
	Create(ctx context.Context, iv Interview) error
	Get(ctx context.Context, id string) (Interview, error)
	Update(ctx context.Context, iv Interview) error
	Delete(ctx context.Context, id string) error
	// List returns matches ordered by date, latest first.
	List(ctx context.Context, filter Filter) ([]Interview, error)
}
