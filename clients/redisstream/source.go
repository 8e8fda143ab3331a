package redisstream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"

	"github.com/appellation/chess/clients"
	"github.com/appellation/chess/core"
	"github.com/appellation/chess/core/log"
	"github.com/appellation/chess/metrics"
)

const (
	payloadField     = "data"
	readCount        = 50
	readBlock        = 5 * time.Second
	pendingClaimIdle = time.Minute
)

// EventSource consumes gateway events from Redis Streams. Each event name is a stream and
// the subscriber group is a consumer group on every stream.
type EventSource struct {
	client            *redis.Client
	group             string
	consumer          string
	reconnectInterval time.Duration
	claimIdle         time.Duration
}

// NewEventSource creates a Redis Streams event source from a redis:// URL
func NewEventSource(redisURL, group string, reconnectInterval time.Duration) (clients.EventSource, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return NewEventSourceFromClient(redis.NewClient(opts), group, reconnectInterval), nil
}

// NewEventSourceFromClient wraps an existing client
func NewEventSourceFromClient(client *redis.Client, group string, reconnectInterval time.Duration) clients.EventSource {
	return &EventSource{
		client:            client,
		group:             group,
		consumer:          core.NewID("consumer"),
		reconnectInterval: reconnectInterval,
		claimIdle:         pendingClaimIdle,
	}
}

// Subscribe reads events until ctx is cancelled. Failing to declare the consumer groups the
// first time is returned as an error. Later read failures are treated as a lost connection:
// after the reconnect interval the consumer groups are declared again.
func (s *EventSource) Subscribe(ctx context.Context, events []string, handler clients.EventHandlerFunc) error {
	if len(events) == 0 {
		return fmt.Errorf("no events to subscribe to")
	}

	log.Info("📋 Starting to consume streams %v for group %s as %s", events, s.group, s.consumer)
	if err := s.createGroups(ctx, events); err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}

	for {
		log.Info("✅ Subscribed to streams %v for group %s", events, s.group)

		err := s.readLoop(ctx, events, handler)
		if ctx.Err() != nil {
			log.Info("📋 Completed successfully - stopped consuming streams for group %s", s.group)
			return nil
		}

		metrics.BrokerReconnects.WithLabelValues("redis").Inc()
		log.Warn("⚠️ Redis stream connection closed, reconnecting in %s: %v", s.reconnectInterval, err)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.reconnectInterval):
		}

		if err := s.declareGroups(ctx, events); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// Close closes the underlying client
func (s *EventSource) Close() error {
	if err := s.client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	return nil
}

func (s *EventSource) createGroups(ctx context.Context, events []string) error {
	for _, stream := range events {
		err := s.client.XGroupCreateMkStream(ctx, stream, s.group, "$").Err()
		if err != nil && !isBusyGroup(err) {
			return fmt.Errorf("failed to create group %s on stream %s: %w", s.group, stream, err)
		}
	}
	return nil
}

func (s *EventSource) declareGroups(ctx context.Context, events []string) error {
	declare := func() (struct{}, error) {
		return struct{}{}, s.createGroups(ctx, events)
	}

	_, err := backoff.Retry(
		ctx,
		declare,
		backoff.WithBackOff(backoff.NewConstantBackOff(s.reconnectInterval)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			metrics.BrokerReconnects.WithLabelValues("redis").Inc()
			log.Warn("⚠️ Redis connection failed, retrying in %s: %v", next, err)
		}),
	)
	return err
}

func (s *EventSource) readLoop(ctx context.Context, events []string, handler clients.EventHandlerFunc) error {
	var lastClaim time.Time
	for {
		if time.Since(lastClaim) >= s.claimIdle {
			if err := s.claimStale(ctx, events, handler); err != nil {
				return err
			}
			lastClaim = time.Now()
		}

		streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    s.group,
			Consumer: s.consumer,
			Streams:  ReadGroupStreams(events),
			Count:    readCount,
			Block:    readBlock,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return err
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				handler(stream.Stream, Payload(message), s.ackFunc(stream.Stream, message.ID))
			}
		}
	}
}

// claimStale takes over entries that were delivered to a consumer in the group but left
// unacknowledged for longer than claimIdle, such as deliveries refused during shutdown.
func (s *EventSource) claimStale(ctx context.Context, events []string, handler clients.EventHandlerFunc) error {
	for _, stream := range events {
		start := "0-0"
		for {
			messages, next, err := s.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
				Stream:   stream,
				Group:    s.group,
				Consumer: s.consumer,
				MinIdle:  s.claimIdle,
				Start:    start,
				Count:    readCount,
			}).Result()
			if err != nil {
				return fmt.Errorf("failed to claim pending entries on stream %s: %w", stream, err)
			}

			if len(messages) > 0 {
				log.Info("📨 Claimed %d stale entries on stream %s", len(messages), stream)
			}
			for _, message := range messages {
				handler(stream, Payload(message), s.ackFunc(stream, message.ID))
			}

			if next == "" || next == "0-0" {
				break
			}
			start = next
		}
	}
	return nil
}

func (s *EventSource) ackFunc(stream, id string) clients.AckFunc {
	return func() error {
		return s.client.XAck(context.Background(), stream, s.group, id).Err()
	}
}

// ReadGroupStreams builds the XREADGROUP stream list: every stream followed by one ">" each
func ReadGroupStreams(events []string) []string {
	streams := make([]string, 0, len(events)*2)
	streams = append(streams, events...)
	for range events {
		streams = append(streams, ">")
	}
	return streams
}

// Payload extracts the event body from a stream entry
func Payload(message redis.XMessage) []byte {
	switch value := message.Values[payloadField].(type) {
	case string:
		return []byte(value)
	case []byte:
		return value
	default:
		return nil
	}
}

func isBusyGroup(err error) bool {
	return strings.HasPrefix(err.Error(), "BUSYGROUP")
}
