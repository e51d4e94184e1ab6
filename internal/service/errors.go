package service

import "errors"

// Error kinds. Services wrap these with context; the transport layer maps
// them with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrDuplicate  = errors.New("duplicate")
	ErrState      = errors.New("invalid state")
	ErrNotFound   = errors.New("not found")
	ErrAuth       = errors.New("authentication failed")
)
