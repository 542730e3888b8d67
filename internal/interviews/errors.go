package interviews

import "interviewhub/internal/shared/errs"

var (
	ErrNotFound           = errs.NotFound("Interview not found")
	ErrNotOwner           = errs.Forbidden("Not authorized to modify this interview")
	ErrNoInterviewers     = errs.Invalid("At least one interviewer is required")
	ErrInvalidInterviewer = errs.Invalid("Every interviewer must be an existing user with the Interviewer role")
	ErrInvalidMode        = errs.Invalid("Mode must be In-person, Video Call or Phone")
	ErrInvalidStatus      = errs.Invalid("Status must be Scheduled, Completed or Cancelled")
	ErrInvalidDate        = errs.Invalid("Date must be YYYY-MM-DD or RFC 3339")
	ErrInUse              = errs.Conflict("Interview is linked to applications or feedback and cannot be deleted")
)
