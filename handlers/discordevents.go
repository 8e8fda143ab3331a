package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/gammazero/workerpool"

	"github.com/appellation/chess/clients"
	"github.com/appellation/chess/config"
	"github.com/appellation/chess/core"
	"github.com/appellation/chess/core/log"
	"github.com/appellation/chess/metrics"
	"github.com/appellation/chess/middleware"
	"github.com/appellation/chess/models"
	"github.com/appellation/chess/usecases"
)

// DiscordEventsHandler receives broker deliveries, acknowledges them and hands the decoded
// events to a bounded worker pool
type DiscordEventsHandler struct {
	messageEvent     string
	interactionEvent string
	discordUseCase   usecases.DiscordUseCaseInterface
	alertMiddleware  *middleware.ErrorAlertMiddleware
	workerPool       *workerpool.WorkerPool

	mutex   sync.RWMutex
	stopped bool
}

func NewDiscordEventsHandler(
	brokerConfig config.BrokerConfig,
	workerPoolSize int,
	discordUseCase usecases.DiscordUseCaseInterface,
	alertMiddleware *middleware.ErrorAlertMiddleware,
) *DiscordEventsHandler {
	return &DiscordEventsHandler{
		messageEvent:     brokerConfig.MessageEvent,
		interactionEvent: brokerConfig.InteractionEvent,
		discordUseCase:   discordUseCase,
		alertMiddleware:  alertMiddleware,
		workerPool:       workerpool.New(workerPoolSize),
	}
}

// HandleEvent is the broker callback. The delivery is acknowledged before anything else
// happens, so a failed command never leads to redelivery.
func (h *DiscordEventsHandler) HandleEvent(event string, body []byte, ack clients.AckFunc) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	// Left unacknowledged so the broker hands it to the next consumer
	if h.stopped {
		log.Warn("⚠️ Received %s event after shutdown, leaving it unacknowledged", event)
		return
	}

	metrics.EventsReceived.WithLabelValues(event).Inc()

	if err := ack(); err != nil {
		metrics.EventsDropped.WithLabelValues("ack").Inc()
		log.Warn("⚠️ Failed to acknowledge %s delivery: %v", event, err)
	}

	inbound, err := h.decode(event, body)
	if err != nil {
		metrics.EventsDropped.WithLabelValues("decode").Inc()
		log.Error("❌ Failed to decode %s event: %v", event, err)
		return
	}

	log.Debug("📨 Received %s event %s from user %s (%s)", event, inbound.ID, inbound.Actor.ID, inbound.Target)
	h.workerPool.Submit(h.alertMiddleware.WrapTask(fmt.Sprintf("%s %s", event, inbound.ID), func() error {
		return h.discordUseCase.ProcessEvent(context.Background(), inbound)
	}))
}

// Stop waits for queued events to finish and releases the worker pool
func (h *DiscordEventsHandler) Stop() {
	h.mutex.Lock()
	h.stopped = true
	h.mutex.Unlock()

	h.workerPool.StopWait()
}

func (h *DiscordEventsHandler) decode(event string, body []byte) (models.InboundEvent, error) {
	switch event {
	case h.messageEvent:
		var message discordgo.Message
		if err := json.Unmarshal(body, &message); err != nil {
			return models.InboundEvent{}, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		return MapMessage(&message)
	case h.interactionEvent:
		var interaction discordgo.Interaction
		if err := json.Unmarshal(body, &interaction); err != nil {
			return models.InboundEvent{}, fmt.Errorf("failed to unmarshal interaction: %w", err)
		}
		return MapInteraction(&interaction)
	default:
		return models.InboundEvent{}, fmt.Errorf("unexpected event %s", event)
	}
}

// MapMessage converts a gateway message into an InboundEvent
func MapMessage(message *discordgo.Message) (models.InboundEvent, error) {
	if message.Author == nil {
		return models.InboundEvent{}, fmt.Errorf("message %s has no author", message.ID)
	}
	if message.ChannelID == "" {
		return models.InboundEvent{}, fmt.Errorf("message %s has no channel", message.ID)
	}

	return models.InboundEvent{
		ID:          core.NewEventID(),
		Kind:        models.EventKindTextMessage,
		Actor:       models.NewDiscordActor(message.Author.ID),
		Target:      models.NewChannelTarget(message.ChannelID),
		Content:     message.Content,
		AuthorIsBot: message.Author.Bot,
	}, nil
}

// MapInteraction converts a gateway interaction into an InboundEvent. Guild interactions carry
// the invoking user on the member, direct-message interactions on the user.
func MapInteraction(interaction *discordgo.Interaction) (models.InboundEvent, error) {
	if interaction.ID == "" || interaction.Token == "" {
		return models.InboundEvent{}, fmt.Errorf("interaction is missing its id or token")
	}

	inbound := models.InboundEvent{
		ID:              core.NewEventID(),
		Kind:            models.EventKindInteraction,
		Target:          models.NewInteractionTarget(interaction.ID, interaction.Token),
		InteractionType: models.InteractionType(interaction.Type),
	}

	switch {
	case interaction.Member != nil && interaction.Member.User != nil:
		inbound.Actor = models.NewDiscordActor(interaction.Member.User.ID)
	case interaction.User != nil:
		inbound.Actor = models.NewDiscordActor(interaction.User.ID)
	}

	if interaction.Type != discordgo.InteractionApplicationCommand {
		return inbound, nil
	}
	if inbound.Actor.ID == "" {
		return models.InboundEvent{}, fmt.Errorf("interaction %s has no invoking user", interaction.ID)
	}

	data := interaction.ApplicationCommandData()
	inbound.CommandName = data.Name
	for _, option := range data.Options {
		inbound.Options = append(inbound.Options, models.CommandOption{
			Name:  option.Name,
			Value: optionValue(option.Value),
		})
	}
	return inbound, nil
}

func optionValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
