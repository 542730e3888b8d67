package jobs

import "context"

type Repo interface {
	Create(ctx context.Context, job Job) error
	Get(ctx context.Context, id string) (Job, error)
	Update(ctx context.Context, job Job) error
	Delete(ctx context.Context, id string) error
	// List returns matches newest first.
	List(ctx context.Context, filter Filter) ([]Job, error)
}
