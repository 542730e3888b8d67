package applications

import "context"

// Repo persists applications. Create returns ErrAlreadyApplied when the
// (job, applicant) pair exists; the store's unique index is authoritative.
type Repo interface {
	Create(ctx context.Context, app Application) error
	Get(ctx context.Context, id string) (Application, error)
	// FindByJobApplicant backs the duplicate pre-check.
	FindByJobApplicant(ctx context.Context, jobID, applicantID string) (Application, error)
	// UpdateStatus overwrites status, interview reference and updated_at.
	UpdateStatus(ctx context.Context, app Application) error
	// List returns matches most recently applied first.
	List(ctx context.Context, filter Filter) ([]Application, error)
	InterviewIDsForApplicant(ctx context.Context, applicantID string) ([]string, error)
}
