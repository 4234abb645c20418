package gobatcher

import (
	"fmt"
	"iter"

	"gorm.io/gorm"
)

// BatchIterator fetches rows of model T in fixed-size batches ordered by the
// model's primary key, so that scanning a large table never materializes more
// than one batch at a time.
//
// An iterator is owned by the goroutine that constructed it and is not safe
// for concurrent use. The underlying gorm session must not be used from other
// goroutines while a scan is in progress.
//
// The scan pages with LIMIT/OFFSET against a live table. Rows inserted or
// deleted below the current offset while the scan is running may therefore be
// skipped or seen twice; the ordering and exactly-once guarantees hold for
// datasets that stay stable for the duration of the scan.
type BatchIterator[T any] struct {
	session   *gorm.DB
	ordering  Orderings
	batchSize int

	offset int
	batch  []T
	err    error
	done   bool
}

// New builds a BatchIterator over db for model T.
//
// db may carry conditions (WHERE, joins, a narrowed Select); the iterator only
// appends ordering, LIMIT and OFFSET, so a scoped scan works the same way an
// unscoped one does. All validation happens here, before any query is issued:
//
//   - batchSize must be at least 1, otherwise ErrInvalidIteratorConfig;
//   - T must parse as a gorm model, otherwise ErrUnmappedModel;
//   - T must declare exactly one primary-key column, otherwise
//     ErrMissingPrimaryKey or ErrCompositePrimaryKey.
//
// The resolved primary-key column becomes the scan's ascending order column.
func New[T any](db *gorm.DB, batchSize int) (*BatchIterator[T], error) {
	if db == nil {
		return nil, fmt.Errorf("%w: nil gorm session", ErrInvalidIteratorConfig)
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("%w: batch size must be at least 1, got %d", ErrInvalidIteratorConfig, batchSize)
	}

	column, err := primaryKeyColumn(new(T), db.NamingStrategy)
	if err != nil {
		return nil, err
	}

	ordering := Orderings{{Column: column, Direction: DirectionASC}}
	err = ordering.validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIteratorConfig, err)
	}

	return &BatchIterator[T]{
		// Session() keeps the caller's conditions while making the handle
		// re-chainable, so repeated advances never accumulate clauses.
		session:   db.Session(&gorm.Session{}),
		ordering:  ordering,
		batchSize: batchSize,
	}, nil
}

// Next advances the iterator by one batch. It issues a single range query and
// returns true when a non-empty batch was fetched; the batch is available via
// Batch until the following call. It returns false once the table is
// exhausted or a query failed - check Err to tell the two apart. After a
// false result the iterator stays terminated; restarting a scan requires a
// new iterator.
//
// The internal offset advances by the configured batch size rather than by
// the number of rows returned: against a stable dataset a short batch can
// only be the final page, and keeping the stride fixed means a concurrent
// delete shifts which rows are seen (an accepted property of offset
// pagination) instead of silently changing the stride.
func (it *BatchIterator[T]) Next() bool {
	if it.done || it.err != nil {
		return false
	}

	batch := make([]T, 0, it.batchSize)
	result := it.ordering.Apply(it.session).
		Limit(it.batchSize).
		Offset(it.offset).
		Find(&batch)
	if result.Error != nil {
		it.err = result.Error
		it.batch = nil
		it.done = true

		return false
	}

	if len(batch) == 0 {
		it.batch = nil
		it.done = true

		return false
	}

	it.batch = batch
	it.offset += it.batchSize

	return true
}

// Batch returns the rows fetched by the last successful Next call, between 1
// and the batch size of them. It returns nil before the first advance and
// after the iterator terminates; an empty batch is never surfaced.
func (it *BatchIterator[T]) Batch() []T {
	if it == nil {
		return nil
	}

	return it.batch
}

// Err returns the first error encountered by Next, unchanged from the
// underlying session. It returns nil while the scan is progressing and after
// a clean exhaustion.
func (it *BatchIterator[T]) Err() error {
	if it == nil {
		return nil
	}

	return it.err
}

// Batches adapts the iterator to a range-over-func sequence:
//
//	for batch := range it.Batches() {
//	    ...
//	}
//	if err := it.Err(); err != nil {
//	    ...
//	}
//
// The sequence shares the iterator's state, so it is just as non-restartable
// as the iterator itself. Check Err after the loop.
func (it *BatchIterator[T]) Batches() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for it.Next() {
			if !yield(it.Batch()) {
				return
			}
		}
	}
}

// GetOffset returns the row offset the next advance will query at.
func (it *BatchIterator[T]) GetOffset() int {
	if it == nil {
		return 0
	}

	return it.offset
}

// GetBatchSize returns the configured batch size.
func (it *BatchIterator[T]) GetBatchSize() int {
	if it == nil {
		return 0
	}

	return it.batchSize
}

// GetOrderColumn returns the resolved primary-key column the scan orders by.
func (it *BatchIterator[T]) GetOrderColumn() string {
	if it == nil || len(it.ordering) == 0 {
		return ""
	}

	return it.ordering[0].Column
}
