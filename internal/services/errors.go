package services

import "errors"

var (
	// ErrIllegalTransition: the record's current status does not allow
	// the requested move.
	ErrIllegalTransition = errors.New("transition not allowed from the current status")

	// ErrDuplicateAction: the same action on the same record is already
	// in flight.
	ErrDuplicateAction = errors.New("action already in progress")

	// ErrEmptyNote: attachment rejections must carry a reason.
	ErrEmptyNote = errors.New("a rejection note is required")

	// ErrGroupNotFound: the named attachment group is not on the record.
	ErrGroupNotFound = errors.New("attachment group not found")

	// ErrNotSupported: the upstream server does not ship this operation.
	ErrNotSupported = errors.New("operation not supported by the upstream server")

	// ErrValidation wraps input problems caught before any upstream call.
	ErrValidation = errors.New("validation failed")
)
