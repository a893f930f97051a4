package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCode        = errors.New("roster code not recognized")
	ErrCodeMismatch       = errors.New("roster code does not match account")
	ErrBadPassword        = errors.New("incorrect password")
	ErrExportFailure      = errors.New("export failed")
	ErrInvalidStatus      = errors.New("invalid ticket status")
	ErrResolutionRequired = errors.New("resolution text required")
	ErrForbidden          = errors.New("access denied")
	ErrValidation         = errors.New("validation failed")
)
