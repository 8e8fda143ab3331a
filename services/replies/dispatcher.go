package replies

import (
	"context"
	"fmt"

	"github.com/samber/mo"

	"github.com/appellation/chess/clients"
	"github.com/appellation/chess/core/log"
	"github.com/appellation/chess/metrics"
	"github.com/appellation/chess/models"
)

// Dispatcher delivers replies to a channel or an interaction callback. Delivery is best
// effort: a failed reply is recorded and returned but never retried.
type Dispatcher struct {
	discordClient clients.DiscordClient
}

func NewDispatcher(discordClient clients.DiscordClient) *Dispatcher {
	return &Dispatcher{discordClient: discordClient}
}

// Send posts text to target
func (d *Dispatcher) Send(ctx context.Context, target models.ReplyTarget, text string) error {
	var err error
	if target.IsInteraction() {
		err = d.discordClient.RespondInteraction(ctx, target.InteractionID, target.InteractionToken,
			clients.InteractionResponse{
				Type:    clients.InteractionResponseChannelMessage,
				Content: mo.Some(text),
			})
	} else {
		err = d.discordClient.SendChannelMessage(ctx, target.ChannelID, text)
	}

	return d.record(target, err)
}

// SendPong acknowledges an interaction liveness probe
func (d *Dispatcher) SendPong(ctx context.Context, target models.ReplyTarget) error {
	if !target.IsInteraction() {
		return fmt.Errorf("pong requires an interaction target, got %s", target)
	}

	err := d.discordClient.RespondInteraction(ctx, target.InteractionID, target.InteractionToken,
		clients.InteractionResponse{Type: clients.InteractionResponsePong})
	return d.record(target, err)
}

func (d *Dispatcher) record(target models.ReplyTarget, err error) error {
	kind := targetKind(target)
	if err != nil {
		metrics.ReplyFailures.WithLabelValues(kind).Inc()
		logger := log.With().Str("target", target.String()).Logger()
		logger.Error().Err(err).Msg("❌ Failed to deliver reply")
		return fmt.Errorf("failed to deliver reply to %s: %w", target, err)
	}

	metrics.RepliesSent.WithLabelValues(kind).Inc()
	return nil
}

func targetKind(target models.ReplyTarget) string {
	if target.IsInteraction() {
		return "interaction"
	}
	return "channel"
}
