package domain

import "errors"

var (
	// ErrSourceMissing is returned when a required input source is absent
	// at the expected location. Always fatal; no output is produced.
	ErrSourceMissing = errors.New("required source file missing")

	// ErrMalformedSource is returned when a source violates its declared
	// structure (short CSV row, missing top-level array). Always fatal.
	ErrMalformedSource = errors.New("malformed source structure")

	// ErrStoreClosed is returned when an insert is attempted after the
	// store transaction has been committed or rolled back.
	ErrStoreClosed = errors.New("output store already closed")

	// ErrEmptyDescription is returned by the store when an entity with an
	// empty description reaches it. The deduplicator excludes these
	// earlier, so seeing this error indicates a pipeline bug.
	ErrEmptyDescription = errors.New("entity has empty description")
)
