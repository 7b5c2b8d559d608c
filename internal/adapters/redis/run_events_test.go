package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/accessjobs/internal/domain/model"
	"github.com/target/accessjobs/internal/testutil"
)

func TestNewRunEventPublisher_RequiresClient(t *testing.T) {
	_, err := NewRunEventPublisher(nil, "")
	require.Error(t, err)
}

func TestRunEventPublisher_Publish(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	channel := "accessjobs:test:" + t.Name()
	pub, err := NewRunEventPublisher(client, channel)
	require.NoError(t, err)
	assert.Equal(t, channel, pub.Channel())

	sub := client.Subscribe(ctx, channel)
	defer func() { _ = sub.Close() }()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	ev := model.JobRunEvent{
		JobID:          "job-1",
		Kind:           model.JobKindNotification,
		Status:         model.JobRunCompleted,
		StartedBy:      "host:1",
		ProcessedCount: 3,
		FailedCount:    1,
		OccurredAt:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.PublishRunEvent(ctx, ev))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got model.JobRunEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, ev, got)
}

func TestRunEventPublisher_DefaultChannel(t *testing.T) {
	client := testutil.SetupTestRedis(t)

	pub, err := NewRunEventPublisher(client, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultRunEventsChannel, pub.Channel())
}
