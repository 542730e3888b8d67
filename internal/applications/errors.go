package applications

import "interviewhub/internal/shared/errs"

var (
	ErrNotFound          = errs.NotFound("Application not found")
	ErrAlreadyApplied    = errs.Conflict("You have already applied for this job")
	ErrInvalidStatus     = errs.Invalid("Status must be Applied, Under Review, Interview Scheduled, Selected, Rejected or On Hold")
	ErrInterviewRequired = errs.Invalid("An interview is required when scheduling an interview")
	ErrInterviewMismatch = errs.Invalid("Interview belongs to a different job")
	ErrNotYours          = errs.Forbidden("Not authorized to view this application")
)
