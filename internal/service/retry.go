package service

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"github.com/dealerbook/dealerbook/internal/config"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/metrics"
)

// retryPolicy builds the backoff for conflicting events. It returns nil
// when retries are disabled.
func retryPolicy(ctx context.Context, cfg config.CommitConfig) backoff.BackOff {
	if cfg.MaxRetries <= 0 {
		return nil
	}

	b := backoff.NewExponentialBackOff()
	if cfg.InitialInterval > 0 {
		b.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		b.MaxInterval = cfg.MaxInterval
	}
	// bounded by attempts, not wall time
	b.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.MaxRetries)), ctx)
}

// withRetry runs op once, or until it succeeds under the configured policy.
// Only conflicts and store outages are retried; every attempt re-reads.
func withRetry(ctx context.Context, cfg config.CommitConfig, log *logger.Logger, event string, op func() error) error {
	attempt := 0
	run := func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if ierr.IsVersionConflict(err) {
			metrics.ObserveConflict(event)
		}
		if !ierr.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		log.Warnw("business event failed, may retry",
			"event", event,
			"attempt", attempt,
			"error", err,
		)
		return err
	}

	policy := retryPolicy(ctx, cfg)
	if policy == nil {
		err := op()
		if ierr.IsVersionConflict(err) {
			metrics.ObserveConflict(event)
		}
		return err
	}
	return backoff.Retry(run, policy)
}
