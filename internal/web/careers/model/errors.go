package model

import "github.com/Laisky/errors/v2"

var (
	// ErrInvalidInput indicates a posting that cannot be saved as given.
	ErrInvalidInput = errors.New("invalid posting")
	// ErrNotFound indicates the referenced posting does not exist.
	ErrNotFound = errors.New("posting not found")
)
