package gobatcher

import "errors"

// Construction errors. Every one of them is fatal: New never returns an
// iterator alongside a non-nil error, and all of them are raised before any
// query is issued. Match with errors.Is.
var (
	// ErrInvalidIteratorConfig is returned when the iterator is constructed
	// with an unusable configuration, e.g. a batch size below 1 or a nil
	// session.
	ErrInvalidIteratorConfig = errors.New("invalid iterator configuration")

	// ErrUnmappedModel is returned when the model type cannot be parsed as a
	// gorm model at all, so no primary-key metadata is available for it.
	ErrUnmappedModel = errors.New("model is not a mapped gorm model")

	// ErrMissingPrimaryKey is returned when the model has no primary-key
	// column to order the scan by.
	ErrMissingPrimaryKey = errors.New("model has no primary key")

	// ErrCompositePrimaryKey is returned when the model declares more than
	// one primary-key column. Batch scans order by a single column only;
	// composite keys are rejected rather than silently mishandled.
	ErrCompositePrimaryKey = errors.New("composite primary keys are not supported")
)
