package service

import "errors"

var (
	// ErrValidation marks input rejected before any network call.
	ErrValidation = errors.New("validation failed")
	// ErrCommandPending is returned while another relay command is in flight.
	ErrCommandPending = errors.New("a relay command is already in progress")
	// ErrEmptyMessage rejects blank assistant input.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrNotSupported reports a missing optional capability.
	ErrNotSupported = errors.New("not supported on this host")
)
