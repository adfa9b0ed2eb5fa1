package service

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dealerbook/dealerbook/internal/config"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/metrics"
	pubsubRouter "github.com/dealerbook/dealerbook/internal/pubsub/router"
	"github.com/dealerbook/dealerbook/internal/types"
)

// ChangeJournalService reads committed change notifications back and
// writes one structured log line per business event.
type ChangeJournalService interface {
	// Register message handler with the router
	RegisterHandler(router *pubsubRouter.Router, subscriber message.Subscriber, cfg *config.Configuration)

	// HandleChange records a single notification
	HandleChange(msg *message.Message) error
}

type changeJournalService struct {
	ServiceParams
}

func NewChangeJournalService(params ServiceParams) ChangeJournalService {
	return &changeJournalService{ServiceParams: params}
}

func (s *changeJournalService) RegisterHandler(
	router *pubsubRouter.Router,
	subscriber message.Subscriber,
	cfg *config.Configuration,
) {
	router.AddNoPublishHandler(
		"change_journal_handler",
		cfg.Notifications.Topic,
		subscriber,
		s.HandleChange,
	)

	s.Logger.Infow("registered change journal handler",
		"topic", cfg.Notifications.Topic,
		"driver", cfg.Notifications.Driver,
	)
}

func (s *changeJournalService) HandleChange(msg *message.Message) error {
	var evt types.ChangeEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		err = ierr.WithError(err).
			WithHint("Change notification is not valid JSON").
			WithReportableDetails(map[string]any{"message_uuid": msg.UUID}).
			Mark(ierr.ErrValidation)
		metrics.ObserveNotification(msg.Metadata.Get("event"), err)
		return err
	}

	if evt.ID == "" || evt.Event == "" {
		err := ierr.NewError("change notification without id or event").
			WithHint("Change notification is incomplete").
			WithReportableDetails(map[string]any{"message_uuid": msg.UUID}).
			Mark(ierr.ErrValidation)
		metrics.ObserveNotification(evt.Event.String(), err)
		return err
	}

	s.Logger.Infow("change committed",
		"event_id", evt.ID,
		"event", evt.Event,
		"order_number", evt.OrderNumber,
		"entity_ids", evt.EntityIDs,
		"accounts", evt.Accounts,
		"transaction_ids", evt.TransactionIDs,
		"request_id", msg.Metadata.Get("request_id"),
		"committed_at", evt.Timestamp,
	)
	metrics.ObserveNotification(evt.Event.String(), nil)
	return nil
}
