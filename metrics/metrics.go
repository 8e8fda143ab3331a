package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Broker metrics
	EventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chess_events_received_total",
			Help: "Total gateway events received from the broker",
		},
		[]string{"event"},
	)

	EventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chess_events_dropped_total",
			Help: "Total gateway events dropped before dispatch",
		},
		[]string{"reason"}, // "decode", "ack", "bot", "not_command", "unknown_command"
	)

	BrokerReconnects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chess_broker_reconnects_total",
			Help: "Total broker reconnect attempts",
		},
		[]string{"broker"},
	)

	// Command metrics
	CommandsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chess_commands_dispatched_total",
			Help: "Total commands routed to a handler",
		},
		[]string{"command"},
	)

	// Game API metrics
	GameAPIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chess_game_api_requests_total",
			Help: "Total game API requests",
		},
		[]string{"method", "path", "status"},
	)

	GameAPIDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chess_game_api_request_duration_seconds",
			Help:    "Game API request duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "path"},
	)

	// Reply metrics
	RepliesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chess_replies_sent_total",
			Help: "Total replies delivered to the chat platform",
		},
		[]string{"target"}, // "channel" or "interaction"
	)

	ReplyFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chess_reply_failures_total",
			Help: "Total replies the chat platform rejected",
		},
		[]string{"target"},
	)
)
