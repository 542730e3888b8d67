package feedback

import "context"

type Repo interface {
	Create(ctx context.Context, fb Feedback) error
	FindByApplicationInterviewer(ctx context.Context, applicationID, interviewerID string) (Feedback, error)
	// List returns matching feedback, newest first.
	List(ctx context.Context, filter Filter) ([]Feedback, error)
}
