package models

import "errors"

var (
	// ErrEmptyQuery is returned for a query that is blank after trimming.
	ErrEmptyQuery = errors.New("query cannot be empty")
	// ErrIndexNotFound is returned when no index exists at the configured location.
	ErrIndexNotFound = errors.New("vector index not found")
	// ErrIndexCorrupt is returned when index files exist but cannot be decoded consistently.
	ErrIndexCorrupt = errors.New("vector index corrupt")
	// ErrProviderMismatch is returned when the query provider differs from the one that built the index.
	ErrProviderMismatch = errors.New("embedding provider mismatch")
	// ErrUnknownProvider is returned for a provider name that is not configured.
	ErrUnknownProvider = errors.New("unknown embedding provider")
)
