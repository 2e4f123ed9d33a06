package domain

import "errors"

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("not found")

	// ErrValidation wraps invalid user input
	ErrValidation = errors.New("validation failed")

	// ErrNoPreviousPost is returned by resend when the cursor is empty
	ErrNoPreviousPost = errors.New("no previous post to resend")

	// ErrCheckInProgress is returned when a poll for the same target is already running
	ErrCheckInProgress = errors.New("check already in progress")

	// ErrCursorMoved is returned when the stored cursor changed since it was read
	ErrCursorMoved = errors.New("cursor changed by another check")

	// ErrBotNotReady is returned by the chat client before the gateway session is ready
	ErrBotNotReady = errors.New("bot is not ready")
)
