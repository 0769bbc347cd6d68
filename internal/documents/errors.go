package documents

import "errors"

var (
	ErrNotFound     = errors.New("document not found")
	ErrForbidden    = errors.New("document belongs to another user")
	ErrInvalidFile  = errors.New("only PDF files are accepted")
	ErrInvalidState = errors.New("document is not ready")
)
