package memory

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dealerbook/dealerbook/internal/config"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubSubDeliversToSubscriber(t *testing.T) {
	cfg := config.GetDefaultConfig()
	ps := NewPubSub(cfg, logger.NewNopLogger())
	defer ps.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := ps.Subscribe(ctx, cfg.Notifications.Topic)
	require.NoError(t, err)

	sent := message.NewMessage("evt_1", []byte(`{"id":"evt_1","event":"purchase.recorded"}`))
	sent.Metadata.Set("event", "purchase.recorded")
	require.NoError(t, ps.Publish(ctx, cfg.Notifications.Topic, sent))

	select {
	case got := <-msgs:
		assert.Equal(t, "evt_1", got.UUID)
		assert.Equal(t, "purchase.recorded", got.Metadata.Get("event"))
		got.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}
}
