package ical

import "errors"

var (
	// ErrInvalidEncoding is returned by FoldLine when the input is not
	// valid UTF-8.
	ErrInvalidEncoding = errors.New("text is not valid UTF-8")
	// ErrInvalidTime is returned by Document.Encode when an event carries
	// an unset start or end time.
	ErrInvalidTime = errors.New("event start and end must be set")
)
