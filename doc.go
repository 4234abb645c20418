package gobatcher

// Package gobatcher provides a pull-based batch iterator for GORM models.
//
// Overview
//
// gobatcher scans a table in fixed-size, primary-key-ordered chunks via
// LIMIT/OFFSET, bounding memory use when walking large datasets. Construction
// validates everything eagerly - batch size, that the model is mapped and that
// it carries exactly one primary-key column - so a misconfigured scan fails
// before the first query.
//
// Key concepts
//   - BatchIterator: the cursor itself; Next fetches one batch per call,
//     Batch exposes it, Err reports the first session error.
//   - Orderings: single- or multi-column ordering with explicit directions,
//     applied to GORM queries.
//   - dbenv: environment-driven Postgres connections for programs that embed
//     a scan.
//   - gormlog: a zerolog adapter for gorm's logger interface.
//
// See the examples directory for runnable usage.
