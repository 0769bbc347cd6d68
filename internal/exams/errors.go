package exams

import "errors"

var (
	ErrNotFound     = errors.New("exam not found")
	ErrForbidden    = errors.New("exam belongs to another user")
	ErrInvalidState = errors.New("exam is not in the required state")
)
