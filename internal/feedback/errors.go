package feedback

import "interviewhub/internal/shared/errs"

var (
	ErrNotFound              = errs.NotFound("Feedback not found")
	ErrAlreadySubmitted      = errs.Conflict("You have already submitted feedback for this application")
	ErrInvalidRecommendation = errs.Invalid("Invalid recommendation")
	ErrScoreOutOfRange       = errs.Invalid("Scores must be between 1 and 10")
	ErrRatingRequired        = errs.Invalid("Overall rating is required")
	ErrInterviewMismatch     = errs.Invalid("Interview does not belong to the application's job")
)
