package kafka

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dealerbook/dealerbook/internal/config"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/pubsub"
	"github.com/dealerbook/dealerbook/internal/types"
)

// PubSub carries change notifications over Kafka
type PubSub struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     *logger.Logger
}

// NewPubSub creates a new kafka-based pubsub
func NewPubSub(
	cfg *config.Configuration,
	logger *logger.Logger,
) (pubsub.PubSub, error) {
	kcfg := &cfg.Notifications.Kafka
	if len(kcfg.Brokers) == 0 {
		return nil, ierr.NewError("no kafka brokers configured").
			WithHint("notifications.kafka.brokers is required for the kafka driver").
			Mark(ierr.ErrValidation)
	}

	saramaConfig := GetSaramaConfig(kcfg)
	wmLogger := watermill.NewStdLogger(cfg.Logging.Level == types.LogLevelDebug, false)

	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:               kcfg.Brokers,
			Marshaler:             kafka.DefaultMarshaler{},
			OverwriteSaramaConfig: saramaConfig,
		},
		wmLogger,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not connect the change notification publisher").
			Mark(ierr.ErrStoreUnavailable)
	}

	subscriber, err := kafka.NewSubscriber(
		kafka.SubscriberConfig{
			Brokers:               kcfg.Brokers,
			Unmarshaler:           kafka.DefaultMarshaler{},
			OverwriteSaramaConfig: saramaConfig,
			ConsumerGroup:         kcfg.ConsumerGroup,
		},
		wmLogger,
	)
	if err != nil {
		_ = publisher.Close()
		return nil, ierr.WithError(err).
			WithHint("Could not connect the change notification subscriber").
			Mark(ierr.ErrStoreUnavailable)
	}

	logger.Infow("kafka change notifications ready",
		"brokers", kcfg.Brokers,
		"consumer_group", kcfg.ConsumerGroup,
	)

	return &PubSub{
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
	}, nil
}

// Publish publishes a change notification
func (p *PubSub) Publish(ctx context.Context, topic string, msg *message.Message) error {
	return p.publisher.Publish(topic, msg)
}

// Subscribe joins the configured consumer group on topic
func (p *PubSub) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return p.subscriber.Subscribe(ctx, topic)
}

// Close closes the pubsub
func (p *PubSub) Close() error {
	pubErr := p.publisher.Close()
	subErr := p.subscriber.Close()
	if pubErr != nil {
		return pubErr
	}
	return subErr
}
