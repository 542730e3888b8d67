package users

import "interviewhub/internal/shared/errs"

var (
	ErrNotFound           = errs.NotFound("User not found")
	ErrEmailTaken         = errs.Conflict("User already exists with this email")
	ErrInvalidCredentials = errs.Unauthorized("Invalid credentials")
	ErrEmailNotVerified   = errs.Forbidden("Please verify your email first")
	ErrAlreadyVerified    = errs.Invalid("Email already verified")
	ErrInvalidOTP         = errs.Invalid("Invalid OTP")
	ErrOTPExpired         = errs.Invalid("OTP has expired")
	ErrInvalidRefresh     = errs.Unauthorized("Invalid refresh token")
)
