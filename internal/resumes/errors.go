package resumes

import "interviewhub/internal/shared/errs"

var (
	ErrMissing            = errs.Invalid("Please upload a resume")
	ErrUnsupportedType    = errs.Invalid("Only PDF, DOC and DOCX files are allowed")
	ErrTooLarge           = errs.Invalid("Resume must be 5MB or smaller")
	ErrUnreadable         = errs.Invalid("Resume file could not be read")
	ErrNotOwned           = errs.Forbidden("Resume does not belong to you")
	ErrNotFound           = errs.NotFound("Resume not found")
	ErrPresignUnavailable = errs.Invalid("Direct uploads are not available with this storage backend")
)
