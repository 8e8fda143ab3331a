package discord

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/samber/mo"

	"github.com/appellation/chess/clients/game"
	"github.com/appellation/chess/core"
	"github.com/appellation/chess/core/log"
	"github.com/appellation/chess/metrics"
	"github.com/appellation/chess/models"
	"github.com/appellation/chess/services/commands"
	"github.com/appellation/chess/utils"
)

// ReplyDispatcher delivers replies for an event
type ReplyDispatcher interface {
	Send(ctx context.Context, target models.ReplyTarget, text string) error
	SendPong(ctx context.Context, target models.ReplyTarget) error
}

// DiscordUseCase turns decoded gateway events into command dispatches and replies
type DiscordUseCase struct {
	router     *commands.Router
	dispatcher ReplyDispatcher
	prefix     string
}

func NewDiscordUseCase(router *commands.Router, dispatcher ReplyDispatcher, prefix string) *DiscordUseCase {
	return &DiscordUseCase{
		router:     router,
		dispatcher: dispatcher,
		prefix:     prefix,
	}
}

// ProcessEvent handles one event end to end. Reply failures and expected command failures
// are logged here; only failures worth alerting on are returned.
func (d *DiscordUseCase) ProcessEvent(ctx context.Context, event models.InboundEvent) error {
	logger := log.With().Str("event_id", event.ID).Str("user_id", event.Actor.ID).Logger()

	if event.IsPing() {
		logger.Debug().Msg("📋 Answering interaction ping")
		if err := d.dispatcher.SendPong(ctx, event.Target); err != nil {
			logger.Warn().Err(err).Msg("⚠️ Failed to answer interaction ping")
		}
		return nil
	}

	maybeCmd, err := d.parse(event)
	if err != nil {
		return err
	}
	cmd, ok := maybeCmd.Get()
	if !ok {
		return nil
	}

	logger.Info().Str("command", cmd.Name).Msgf("📋 Starting to process command %s", cmd.Name)
	reply := func(ctx context.Context, text string) {
		// Failures are recorded by the dispatcher and never retried
		_ = d.dispatcher.Send(ctx, event.Target, text)
	}

	handled, err := d.router.Dispatch(ctx, cmd, event.Actor, reply)
	if !handled {
		metrics.EventsDropped.WithLabelValues("unknown_command").Inc()
		return nil
	}
	if err != nil {
		if isAlertable(err) {
			return fmt.Errorf("failed to process command %s for event %s: %w", cmd.Name, event.ID, err)
		}
		logger.Warn().Err(err).Str("command", cmd.Name).Msg("⚠️ Command failed")
		return nil
	}

	completed := logger.Info().Str("command", cmd.Name)
	if received, err := core.IDTime(event.ID); err == nil {
		completed = completed.Dur("elapsed", time.Since(received))
	}
	completed.Msgf("📋 Completed successfully - processed command %s", cmd.Name)
	return nil
}

func (d *DiscordUseCase) parse(event models.InboundEvent) (mo.Option[models.ParsedCommand], error) {
	switch event.Kind {
	case models.EventKindTextMessage:
		if event.AuthorIsBot {
			metrics.EventsDropped.WithLabelValues("bot").Inc()
			return mo.None[models.ParsedCommand](), nil
		}
		maybeCmd := utils.ParseTextCommand(d.prefix, event.Content)
		if maybeCmd.IsAbsent() {
			metrics.EventsDropped.WithLabelValues("not_command").Inc()
		}
		return maybeCmd, nil
	case models.EventKindInteraction:
		if event.InteractionType != models.InteractionTypeApplicationCommand {
			metrics.EventsDropped.WithLabelValues("not_command").Inc()
			return mo.None[models.ParsedCommand](), nil
		}
		return mo.Some(utils.ParseInteractionCommand(event.CommandName, event.Options)), nil
	default:
		return mo.None[models.ParsedCommand](), fmt.Errorf("unsupported event kind %q for event %s", event.Kind, event.ID)
	}
}

// isAlertable reports whether a command failure points at the game service rather than at
// the user: transport failures and 5xx responses
func isAlertable(err error) bool {
	if commands.IsArgumentMissing(err) {
		return false
	}
	if apiErr, ok := game.IsAPIError(err); ok {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}
