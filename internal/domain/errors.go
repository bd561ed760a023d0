package domain

import "errors"

var (
	// ErrAuthRequired means the action needs a signed-in, non-guest user.
	ErrAuthRequired = errors.New("authentication required")

	// ErrRemoteUnavailable means the cloud client failed to initialize or
	// the network is unreachable.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrValidation marks malformed input, e.g. an end time before a start.
	ErrValidation = errors.New("validation failed")

	// ErrSessionActive is returned when a second session is started while
	// the running-session slot is occupied.
	ErrSessionActive = errors.New("a session is already active")

	// ErrNoSession is returned by timer transitions that need a running
	// session when the slot is empty.
	ErrNoSession = errors.New("no active session")

	// ErrSyncListener marks a failed change-stream delivery. It is held in
	// engine state rather than returned, since the subscription has no
	// single caller to receive it.
	ErrSyncListener = errors.New("sync listener failed")
)
