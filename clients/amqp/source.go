package amqp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/appellation/chess/clients"
	"github.com/appellation/chess/core/log"
	"github.com/appellation/chess/metrics"
)

const prefetchCount = 50

// EventSource consumes gateway events from an AMQP broker. Every subscriber group gets a
// durable direct exchange named after the group and one durable queue per event.
type EventSource struct {
	url               string
	group             string
	reconnectInterval time.Duration

	mutex sync.Mutex
	conn  *amqp.Connection
}

// NewEventSource creates an AMQP event source. No connection is made until Subscribe.
func NewEventSource(url, group string, reconnectInterval time.Duration) clients.EventSource {
	return &EventSource{
		url:               url,
		group:             group,
		reconnectInterval: reconnectInterval,
	}
}

// Subscribe consumes events until ctx is cancelled. Failing to connect the first time is
// returned as an error. Once consuming, a lost connection, channel or consumer is
// re-established after the reconnect interval and every event is subscribed again.
func (s *EventSource) Subscribe(ctx context.Context, events []string, handler clients.EventHandlerFunc) error {
	if len(events) == 0 {
		return fmt.Errorf("no events to subscribe to")
	}

	log.Info("📋 Starting to consume events %v for group %s", events, s.group)
	lost, err := s.connect(events, handler)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("📋 Completed successfully - stopped consuming events for group %s", s.group)
			return nil
		case reason := <-lost:
			log.Warn("⚠️ AMQP consumer lost: %v", reason)
		}

		if err := s.Close(); err != nil {
			log.Warn("⚠️ Failed to close stale AMQP connection: %v", err)
		}

		// Wait out the interval before reconnecting and subscribing again
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.reconnectInterval):
		}

		lost, err = s.reconnect(ctx, events, handler)
		if ctx.Err() != nil {
			log.Info("📋 Completed successfully - stopped consuming events for group %s", s.group)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to reconnect to broker: %w", err)
		}
	}
}

// Close closes the current connection, if any
func (s *EventSource) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.conn == nil || s.conn.IsClosed() {
		return nil
	}
	if err := s.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return fmt.Errorf("failed to close AMQP connection: %w", err)
	}
	return nil
}

func (s *EventSource) reconnect(ctx context.Context, events []string, handler clients.EventHandlerFunc) (<-chan error, error) {
	connect := func() (<-chan error, error) {
		return s.connect(events, handler)
	}
	return backoff.Retry(
		ctx,
		connect,
		backoff.WithBackOff(backoff.NewConstantBackOff(s.reconnectInterval)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			metrics.BrokerReconnects.WithLabelValues("amqp").Inc()
			log.Warn("⚠️ AMQP connection failed, retrying in %s: %v", next, err)
		}),
	)
}

// connect dials the broker, declares the topology and starts one consumer per event.
// The returned channel fires once, when the connection or channel closes or any consumer stops.
func (s *EventSource) connect(events []string, handler clients.EventHandlerFunc) (<-chan error, error) {
	conn, err := amqp.Dial(s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.Qos(prefetchCount, 0, false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set prefetch: %w", err)
	}

	if err := channel.ExchangeDeclare(s.group, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", s.group, err)
	}

	lost, report := newLossSignal()
	go watchClose("connection", conn.NotifyClose(make(chan *amqp.Error, 1)), report)
	go watchClose("channel", channel.NotifyClose(make(chan *amqp.Error, 1)), report)
	go watchCancel(channel.NotifyCancel(make(chan string, 1)), report)

	for _, event := range events {
		deliveries, err := s.consume(channel, event)
		if err != nil {
			conn.Close()
			return nil, err
		}
		go dispatch(event, deliveries, handler, report)
	}

	s.mutex.Lock()
	s.conn = conn
	s.mutex.Unlock()

	log.Info("✅ Subscribed to events %v on exchange %s", events, s.group)
	return lost, nil
}

func (s *EventSource) consume(channel *amqp.Channel, event string) (<-chan amqp.Delivery, error) {
	queue := QueueName(s.group, event)

	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	if err := channel.QueueBind(queue, event, s.group, false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind queue %s: %w", queue, err)
	}

	deliveries, err := channel.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to consume queue %s: %w", queue, err)
	}
	return deliveries, nil
}

// dispatch forwards deliveries to handler until the channel is closed, then reports the loss
func dispatch(event string, deliveries <-chan amqp.Delivery, handler clients.EventHandlerFunc, report func(error)) {
	for delivery := range deliveries {
		handler(event, delivery.Body, ackFunc(delivery))
	}
	report(fmt.Errorf("deliveries for %s stopped", event))
}

func watchClose(scope string, closed <-chan *amqp.Error, report func(error)) {
	if amqpErr, ok := <-closed; ok && amqpErr != nil {
		report(fmt.Errorf("%s closed: %w", scope, amqpErr))
		return
	}
	report(fmt.Errorf("%s closed", scope))
}

func watchCancel(cancelled <-chan string, report func(error)) {
	if tag, ok := <-cancelled; ok {
		report(fmt.Errorf("consumer %s cancelled by broker", tag))
	}
}

// newLossSignal returns a channel carrying the first reported error only
func newLossSignal() (<-chan error, func(error)) {
	lost := make(chan error, 1)
	var once sync.Once
	return lost, func(err error) {
		once.Do(func() { lost <- err })
	}
}

func ackFunc(delivery amqp.Delivery) clients.AckFunc {
	return func() error {
		return delivery.Ack(false)
	}
}

// QueueName returns the queue a group consumes event from
func QueueName(group, event string) string {
	return group + ":" + event
}
