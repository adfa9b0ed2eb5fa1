package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/jmoiron/sqlx"
)

// QueryTracer wraps database operations with tracing and logging
type QueryTracer struct {
	logger *logger.Logger
	query  string
	params interface{}
	start  time.Time
	txID   string
}

// NewQueryTracer creates a new query tracer
func NewQueryTracer(logger *logger.Logger, query string, params interface{}, txID string) *QueryTracer {
	return &QueryTracer{
		logger: logger,
		query:  query,
		params: params,
		start:  time.Now(),
		txID:   txID,
	}
}

// Done logs the query completion
func (qt *QueryTracer) Done(err error) {
	duration := time.Since(qt.start)
	fields := []interface{}{
		"duration_ms", duration.Milliseconds(),
		"query", qt.query,
		"params", fmt.Sprintf("%+v", qt.params),
	}
	if qt.txID != "" {
		fields = append(fields, "tx_id", qt.txID)
	}
	if err != nil && err != sql.ErrNoRows {
		fields = append(fields, "error", err.Error())
		qt.logger.Errorw("database query failed", fields...)
		return
	}
	qt.logger.Debugw("database query completed", fields...)
}

// TracedQuerier runs named queries against a Querier with tracing.
// Queries use :name parameters and are rebound to the driver's placeholder style.
type TracedQuerier struct {
	q      Querier
	logger *logger.Logger
	txID   string
}

// NewTracedQuerier creates a new traced querier
func NewTracedQuerier(q Querier, logger *logger.Logger, txID string) *TracedQuerier {
	return &TracedQuerier{
		q:      q,
		logger: logger,
		txID:   txID,
	}
}

// NamedExecContext executes a statement and returns its result
func (tq *TracedQuerier) NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	tracer := NewQueryTracer(tq.logger, query, arg, tq.txID)
	result, err := sqlx.NamedExecContext(ctx, tq.q, query, arg)
	tracer.Done(err)
	return result, err
}

// NamedGetContext scans a single row into dest
func (tq *TracedQuerier) NamedGetContext(ctx context.Context, dest interface{}, query string, arg interface{}) error {
	tracer := NewQueryTracer(tq.logger, query, arg, tq.txID)
	bound, args, err := tq.bind(query, arg)
	if err == nil {
		err = sqlx.GetContext(ctx, tq.q, dest, bound, args...)
	}
	tracer.Done(err)
	return err
}

// NamedSelectContext scans all rows into dest
func (tq *TracedQuerier) NamedSelectContext(ctx context.Context, dest interface{}, query string, arg interface{}) error {
	tracer := NewQueryTracer(tq.logger, query, arg, tq.txID)
	bound, args, err := tq.bind(query, arg)
	if err == nil {
		err = sqlx.SelectContext(ctx, tq.q, dest, bound, args...)
	}
	tracer.Done(err)
	return err
}

// NamedQueryContext returns rows for callers that scan row by row
func (tq *TracedQuerier) NamedQueryContext(ctx context.Context, query string, arg interface{}) (*sqlx.Rows, error) {
	tracer := NewQueryTracer(tq.logger, query, arg, tq.txID)
	rows, err := sqlx.NamedQueryContext(ctx, tq.q, query, arg)
	tracer.Done(err)
	return rows, err
}

// ExecContext runs a statement without parameters binding, used by migrations
func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	tracer := NewQueryTracer(tq.logger, query, args, tq.txID)
	result, err := tq.q.ExecContext(ctx, query, args...)
	tracer.Done(err)
	return result, err
}

func (tq *TracedQuerier) bind(query string, arg interface{}) (string, []interface{}, error) {
	if arg == nil {
		return tq.q.Rebind(query), nil, nil
	}
	bound, args, err := sqlx.Named(query, arg)
	if err != nil {
		return "", nil, err
	}
	return tq.q.Rebind(bound), args, nil
}
