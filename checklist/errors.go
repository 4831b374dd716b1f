package checklist

import "errors"

var (
	// ErrMalformedRecord indicates a stored day record could not be decoded.
	ErrMalformedRecord = errors.New("malformed day record")

	// ErrMalformedTemplate indicates the stored template could not be decoded.
	ErrMalformedTemplate = errors.New("malformed task template")

	// ErrMalformedArchive indicates the stored archive could not be decoded.
	ErrMalformedArchive = errors.New("malformed archive")

	// ErrUnknownShift indicates a shift name that is not morning, evening or sunday.
	ErrUnknownShift = errors.New("unknown shift")

	// ErrUnknownQuickField indicates a quick field name that is not recognized.
	ErrUnknownQuickField = errors.New("unknown quick field")

	// ErrTaskIndex indicates a task position outside the shift's list.
	ErrTaskIndex = errors.New("task index out of range")

	// ErrEmptyTask indicates an attempt to add a task without text.
	ErrEmptyTask = errors.New("task text is required")
)
