package clients

import (
	"context"

	"github.com/samber/mo"

	"github.com/appellation/chess/models"
)

// AckFunc acknowledges one delivery to the broker
type AckFunc func() error

// EventHandlerFunc receives one broker delivery. The handler owns the ack.
type EventHandlerFunc func(event string, body []byte, ack AckFunc)

// EventSource defines the interface for consuming gateway events from a broker
type EventSource interface {
	// Subscribe declares the consumer group for the given events and blocks, delivering
	// each event to handler until ctx is cancelled
	Subscribe(ctx context.Context, events []string, handler EventHandlerFunc) error
	Close() error
}

// GameClient defines the interface for the game service HTTP API.
// Every call is made on behalf of actor.
type GameClient interface {
	CreateGame(ctx context.Context, actor models.Actor, targetID string) (*models.GameSnapshot, error)
	GetCurrentGame(ctx context.Context, actor models.Actor) (*models.GameSnapshot, error)
	MakeMove(ctx context.Context, actor models.Actor, move string) (*models.GameSnapshot, error)
	Resign(ctx context.Context, actor models.Actor) (*models.GameSnapshot, error)
	GetPreviousGame(ctx context.Context, actor models.Actor) (*models.PreviousGame, error)
}

// InteractionResponseType mirrors the platform's interaction callback types
type InteractionResponseType int

const (
	InteractionResponsePong           InteractionResponseType = 1
	InteractionResponseChannelMessage InteractionResponseType = 4
)

// InteractionResponse is the body posted to an interaction callback
type InteractionResponse struct {
	Type    InteractionResponseType
	Content mo.Option[string]
}

// DiscordClient defines the interface for the Discord REST calls the bot makes
type DiscordClient interface {
	SendChannelMessage(ctx context.Context, channelID, content string) error
	RespondInteraction(ctx context.Context, interactionID, token string, response InteractionResponse) error
}
