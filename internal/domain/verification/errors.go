package verification

import "errors"

var (
	// ErrEmptyInput is returned when the submitted content is empty or whitespace only.
	ErrEmptyInput = errors.New("content is empty")
	// ErrBusy is returned when a submission arrives while another one is still being analyzed.
	ErrBusy = errors.New("analysis already in progress")
	// ErrNotFound is returned by repositories for unknown record ids.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidKind is returned for input kinds other than text and url.
	ErrInvalidKind = errors.New("invalid input kind (allowed: text, url)")
	// ErrInvalidVerdict is returned when a classifier produces an out-of-range verdict.
	ErrInvalidVerdict = errors.New("invalid verdict")
)
