package domain

import "errors"

var (
	// ErrNoAmount is returned when input text contains no recognizable amount.
	ErrNoAmount = errors.New("no amount found in text")

	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("not found")
)
