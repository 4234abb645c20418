// Package gormlog adapts a zerolog.Logger to gorm's logger.Interface so
// query traffic lands in the same structured log stream as the rest of an
// application.
package gormlog

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm/logger"
)

// DefaultSlowThreshold marks the elapsed time above which a query is
// reported as slow.
const DefaultSlowThreshold = 200 * time.Millisecond

// Logger implements gorm's logger.Interface on top of zerolog.
type Logger struct {
	log           zerolog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

var _ logger.Interface = (*Logger)(nil)

// New wraps log into a gorm-compatible logger. The returned logger reports
// at warn level until LogMode raises it.
func New(log zerolog.Logger) *Logger {
	return &Logger{
		log:           log,
		level:         logger.Warn,
		slowThreshold: DefaultSlowThreshold,
	}
}

// WithSlowThreshold overrides the slow query threshold. A zero or negative
// threshold disables slow query reporting.
func (l *Logger) WithSlowThreshold(threshold time.Duration) *Logger {
	if l == nil {
		return nil
	}

	l.slowThreshold = threshold

	return l
}

// LogMode returns a copy of the logger reporting at the given level.
func (l *Logger) LogMode(level logger.LogLevel) logger.Interface {
	cp := *l
	cp.level = level

	return &cp
}

func (l *Logger) Info(_ context.Context, msg string, args ...any) {
	if l.level >= logger.Info {
		l.log.Info().Msgf(msg, args...)
	}
}

func (l *Logger) Warn(_ context.Context, msg string, args ...any) {
	if l.level >= logger.Warn {
		l.log.Warn().Msgf(msg, args...)
	}
}

func (l *Logger) Error(_ context.Context, msg string, args ...any) {
	if l.level >= logger.Error {
		l.log.Error().Msgf(msg, args...)
	}
}

// Trace reports a completed query. Failed queries log at error level except
// for record-not-found, which is routine and logs at debug. Queries slower
// than the threshold log at warn.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && l.level >= logger.Error:
		if errors.Is(err, logger.ErrRecordNotFound) {
			l.log.Debug().Err(err).Dur("elapsed", elapsed).Str("sql", sql).Msg("query returned no rows")
			return
		}
		l.log.Error().Err(err).Dur("elapsed", elapsed).Str("sql", sql).Msg("query failed")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		l.log.Warn().
			Dur("elapsed", elapsed).
			Dur("threshold", l.slowThreshold).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("slow query")
	case l.level >= logger.Info:
		l.log.Debug().
			Dur("elapsed", elapsed).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("query")
	}
}
