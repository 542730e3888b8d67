package jobs

import "interviewhub/internal/shared/errs"

var (
	ErrNotFound     = errs.NotFound("Job not found")
	ErrNotOwner     = errs.Forbidden("Not authorized to modify this job")
	ErrInvalidType  = errs.Invalid("Type must be Full-time, Part-time, Contract or Internship")
	ErrInvalidRange = errs.Invalid("Salary min cannot exceed max")
	ErrInUse        = errs.Conflict("Job has applications or interviews and cannot be deleted; deactivate it instead")
)
