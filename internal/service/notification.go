package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dealerbook/dealerbook/internal/cache"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/types"
)

// afterCommit drops stale listings and tells subscribers what changed.
// Neither step can fail the event.
func (p ServiceParams) afterCommit(ctx context.Context, evt *types.ChangeEvent) {
	if p.Cache != nil {
		p.Cache.DeleteByPrefix(ctx, cache.PrefixTransactions)
		p.Cache.DeleteByPrefix(ctx, cache.PrefixAccounts)
		p.Cache.DeleteByPrefix(ctx, cache.PrefixEntries)
	}

	if err := p.publishChange(ctx, evt); err != nil {
		p.Logger.Errorw("failed to publish change notification",
			"event_id", evt.ID,
			"event", evt.Event,
			"error", err,
		)
	}
}

func (p ServiceParams) publishChange(ctx context.Context, evt *types.ChangeEvent) error {
	if !p.Config.Notifications.Enabled || p.Publisher == nil {
		return nil
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to marshal change notification").
			Mark(ierr.ErrSystem)
	}

	msg := message.NewMessage(evt.ID, payload)
	msg.Metadata.Set("event", evt.Event.String())
	msg.Metadata.Set("request_id", types.GetRequestID(ctx))

	topic := p.Config.Notifications.Topic
	p.Logger.Debugw("publishing change notification",
		"event_id", evt.ID,
		"event", evt.Event,
		"topic", topic,
	)

	if err := p.Publisher.Publish(ctx, topic, msg); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to publish change notification").
			Mark(ierr.ErrSystem)
	}
	return nil
}
