// Package redis provides Redis-based adapters.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/target/accessjobs/internal/core"
	"github.com/target/accessjobs/internal/domain/model"
)

// DefaultRunEventsChannel is the pub/sub channel terminal run events are published to.
const DefaultRunEventsChannel = "accessjobs:job_runs"

// RunEventPublisher publishes terminal job run events as JSON over Redis pub/sub.
type RunEventPublisher struct {
	client  redis.UniversalClient
	channel string
}

var _ core.RunEventPublisher = (*RunEventPublisher)(nil)

// NewRunEventPublisher creates a publisher on channel, or DefaultRunEventsChannel when empty.
func NewRunEventPublisher(client redis.UniversalClient, channel string) (*RunEventPublisher, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if channel == "" {
		channel = DefaultRunEventsChannel
	}
	return &RunEventPublisher{client: client, channel: channel}, nil
}

// Channel returns the pub/sub channel name.
func (p *RunEventPublisher) Channel() string {
	return p.channel
}

// PublishRunEvent implements core.RunEventPublisher.
func (p *RunEventPublisher) PublishRunEvent(ctx context.Context, ev model.JobRunEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal run event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}
