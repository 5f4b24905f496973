// Package engine decorates a search engine with metrics and logging.
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recdex/internal/db"
	"github.com/kailas-cloud/recdex/internal/metrics"
)

// Engine operation labels.
const (
	opAdd    = "add"
	opCommit = "commit"
	opDelete = "delete"
	opQuery  = "query"
	opPing   = "ping"
)

// Compile-time check: Instrumented implements db.Engine.
var _ db.Engine = (*Instrumented)(nil)

// Instrumented wraps a db.Engine with request metrics and debug logs.
// Errors are passed through untouched so callers can still inspect the
// engine message.
type Instrumented struct {
	inner  db.Engine
	driver string
	logger *zap.Logger
}

// NewInstrumented wraps an engine. driver labels log lines.
func NewInstrumented(inner db.Engine, driver string, logger *zap.Logger) *Instrumented {
	return &Instrumented{inner: inner, driver: driver, logger: logger}
}

// Add delegates to the inner engine.
func (e *Instrumented) Add(ctx context.Context, docs ...db.Document) error {
	start := time.Now()
	err := e.inner.Add(ctx, docs...)
	e.observe(opAdd, start, err, zap.Int("documents", len(docs)))
	return err //nolint:wrapcheck // decorator
}

// Commit delegates to the inner engine.
func (e *Instrumented) Commit(ctx context.Context) error {
	start := time.Now()
	err := e.inner.Commit(ctx)
	e.observe(opCommit, start, err)
	return err //nolint:wrapcheck // decorator
}

// DeleteByID delegates to the inner engine.
func (e *Instrumented) DeleteByID(ctx context.Context, id string) error {
	start := time.Now()
	err := e.inner.DeleteByID(ctx, id)
	e.observe(opDelete, start, err, zap.String("id", id))
	return err //nolint:wrapcheck // decorator
}

// Query delegates to the inner engine.
func (e *Instrumented) Query(ctx context.Context, q *db.Query) (*db.Response, error) {
	start := time.Now()
	resp, err := e.inner.Query(ctx, q)
	fields := []zap.Field{zap.String("q", q.Q), zap.Strings("fq", q.FilterQueries)}
	if resp != nil {
		fields = append(fields, zap.Int64("num_found", resp.NumFound))
	}
	e.observe(opQuery, start, err, fields...)
	return resp, err //nolint:wrapcheck // decorator
}

// Ping delegates to the inner engine.
func (e *Instrumented) Ping(ctx context.Context) error {
	start := time.Now()
	err := e.inner.Ping(ctx)
	e.observe(opPing, start, err)
	return err //nolint:wrapcheck // decorator
}

// Close closes the inner engine.
func (e *Instrumented) Close() error {
	return e.inner.Close() //nolint:wrapcheck // decorator
}

func (e *Instrumented) observe(op string, start time.Time, err error, fields ...zap.Field) {
	duration := time.Since(start)
	metrics.EngineRequestDuration.WithLabelValues(op).Observe(duration.Seconds())

	fields = append(fields,
		zap.String("driver", e.driver),
		zap.String("op", op),
		zap.Duration("duration", duration),
	)
	if err != nil {
		metrics.EngineRequestsTotal.WithLabelValues(op, "error").Inc()
		e.logger.Debug("Engine request failed", append(fields, zap.Error(err))...)
		return
	}
	metrics.EngineRequestsTotal.WithLabelValues(op, "ok").Inc()
	e.logger.Debug("Engine request completed", fields...)
}
