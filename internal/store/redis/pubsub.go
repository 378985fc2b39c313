// Package redis publishes onboarding progress events and feeds them to
// subscribers, so any API replica can stream a run it did not execute.
package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// subscriptionBuffer bounds how far a slow reader may fall behind before
// events are dropped.
const subscriptionBuffer = 64

type PubSub struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &PubSub{client: client}, nil
}

func (ps *PubSub) Close() error {
	if err := ps.client.Close(); err != nil {
		return fmt.Errorf("redis.PubSub.Close: %w", err)
	}
	return nil
}

// Publish sends one event payload to every subscriber of the channel.
func (ps *PubSub) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := ps.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis.PubSub.Publish: %w", err)
	}
	return nil
}

// Subscription is one live feed of a channel. Messages closes when the
// subscription context ends or Close is called.
type Subscription struct {
	messages chan []byte
	sub      *redis.PubSub
}

func (s *Subscription) Messages() <-chan []byte { return s.messages }

func (s *Subscription) Close() {
	_ = s.sub.Close()
}

// Subscribe opens a subscription on the channel. The subscription is
// confirmed before returning, so events published after Subscribe returns
// are never missed. Slow readers lose events rather than block publishers.
func (ps *PubSub) Subscribe(ctx context.Context, channel string) (*Subscription, error) {
	sub := ps.client.Subscribe(ctx, channel)

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis.PubSub.Subscribe: receive confirmation: %w", err)
	}

	s := &Subscription{
		messages: make(chan []byte, subscriptionBuffer),
		sub:      sub,
	}

	go func() {
		defer close(s.messages)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				select {
				case s.messages <- []byte(msg.Payload):
				default:
					// Reader is behind; drop rather than stall the feed.
				}
			}
		}
	}()

	return s, nil
}

// OnboardingChannel returns the Redis channel name for one onboarding run.
func OnboardingChannel(runID uuid.UUID) string {
	return "onboarding:" + runID.String()
}
