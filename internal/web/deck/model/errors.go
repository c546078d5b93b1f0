package model

import "github.com/Laisky/errors/v2"

var (
	// ErrStoreUnavailable indicates the backing object store failed.
	ErrStoreUnavailable = errors.New("object store unavailable")
	// ErrNotFound indicates an object that was expected to exist is absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates bad user input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidRange indicates an out-of-range slide index.
	ErrInvalidRange = errors.New("index out of range")
	// ErrUploadRejected indicates a file the store or service refused to take.
	ErrUploadRejected = errors.New("upload rejected")
	// ErrCodeInvalid covers both unknown and already redeemed access codes,
	// so responses do not leak which codes exist.
	ErrCodeInvalid = errors.New("access code invalid or expired")
	// ErrFeatureUnavailable indicates an optional collaborator is not wired.
	ErrFeatureUnavailable = errors.New("feature unavailable")
)
