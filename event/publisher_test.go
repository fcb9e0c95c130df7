package event

import (
	"context"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	json "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationPublisher_Publish(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	mp := mocks.NewSyncProducer(t, cfg)
	defer mp.Close()

	msg := &ApplicationMessage{
		Action:        ApplicationCreated,
		ApplicationID: "a1",
		ContestID:     "c1",
		UserID:        "u1",
		ProjectID:     "p1",
		OccurredAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	mp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(pm *sarama.ProducerMessage) error {
		assert.Equal(t, "contest_events", pm.Topic)
		key, err := pm.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "a1", string(key))

		val, err := pm.Value.Encode()
		require.NoError(t, err)
		var got ApplicationMessage
		require.NoError(t, json.Unmarshal(val, &got))
		assert.Equal(t, ApplicationCreated, got.Action)
		assert.Equal(t, "c1", got.ContestID)
		return nil
	})

	p := NewApplicationPublisher(NewSaramaSyncProducer(mp), "contest_events")
	require.NoError(t, p.Publish(context.Background(), msg))
}

func TestApplicationPublisher_ProduceFailure(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	mp := mocks.NewSyncProducer(t, cfg)
	defer mp.Close()
	mp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewApplicationPublisher(NewSaramaSyncProducer(mp), "")
	err := p.Publish(context.Background(), &ApplicationMessage{ApplicationID: "a1"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}

func TestNopProducer(t *testing.T) {
	p := NewApplicationPublisher(NopProducer{}, "")
	assert.NoError(t, p.Publish(context.Background(), &ApplicationMessage{ApplicationID: "a1"}))
}
