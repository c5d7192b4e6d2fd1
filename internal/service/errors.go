package service

import "errors"

var (
	ErrMissingDetails     = errors.New("missing details")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrOtpInvalid         = errors.New("invalid otp")
	ErrOtpExpired         = errors.New("otp expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrTaskNotFound       = errors.New("task not found")
)
