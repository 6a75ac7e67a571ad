package domain

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist or is not
	// visible to the caller. Ownership-scoped lookups fold "exists but not yours"
	// into this sentinel so callers cannot probe other users' records.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest signals a precondition failure. The wrapped reason always
	// names the specific precondition so callers never need to parse it to branch.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrConflict signals a uniqueness violation (duplicate username, duplicate
	// host:port proxy).
	ErrConflict = errors.New("conflict")
	// ErrInvalidTransition is returned when a job or account state machine
	// rejects the requested transition from its current state.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrRetryExhausted is returned when a retry is requested for a job whose
	// attempt count already reached its maximum.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// Vault failures. None of these ever carry key material.
	ErrInvalidKey          = errors.New("invalid encryption key")
	ErrMalformedCiphertext = errors.New("malformed ciphertext")
	ErrDecryptionFailed    = errors.New("decryption failed")
)
