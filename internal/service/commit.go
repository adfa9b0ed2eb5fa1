package service

import (
	"context"
	"time"

	"github.com/dealerbook/dealerbook/internal/metrics"
	"github.com/dealerbook/dealerbook/internal/sentry"
	"github.com/dealerbook/dealerbook/internal/types"
)

// commitEvent runs one business event through read, compute and write.
// build performs the read and compute phases against a fresh plan; the plan
// is then written inside the same transaction. A conflict anywhere fails
// the whole event, and the event is retried only when configured.
func (p ServiceParams) commitEvent(ctx context.Context, event types.ChangeEventName, build func(ctx context.Context, plan *commitPlan) error) (*commitPlan, error) {
	started := time.Now()
	span, ctx := p.Sentry.StartCommitSpan(ctx, event.String())

	var plan *commitPlan
	err := withRetry(ctx, p.Config.Commit, p.Logger, event.String(), func() error {
		plan = newCommitPlan(p, event)
		return p.DB.WithTx(ctx, func(ctx context.Context) error {
			if err := build(ctx, plan); err != nil {
				return err
			}
			return plan.write(ctx)
		})
	})

	sentry.FinishSpan(span, err)
	metrics.ObserveCommit(event.String(), started, err)

	if err != nil {
		if metrics.Outcome(err) == metrics.OutcomeFailed {
			p.Sentry.CaptureException(ctx, err)
		}
		p.Logger.Debugw("business event failed",
			"event", event,
			"request_id", types.GetRequestID(ctx),
			"error", err,
		)
		return nil, err
	}

	if plan.empty() {
		p.Logger.Debugw("business event changed nothing", "event", event)
		return plan, nil
	}

	evt := plan.changeEvent()
	p.Logger.Infow("business event committed",
		"event", event,
		"order_number", plan.orderNumber,
		"entities", evt.EntityIDs,
		"accounts", evt.Accounts,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	p.afterCommit(ctx, evt)
	return plan, nil
}
