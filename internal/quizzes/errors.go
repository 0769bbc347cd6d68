package quizzes

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("belongs to another user")
	ErrInvalidRequest = errors.New("invalid request")
)
