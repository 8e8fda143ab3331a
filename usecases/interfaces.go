package usecases

import (
	"context"

	"github.com/appellation/chess/models"
)

// DiscordUseCaseInterface defines the interface for handling one decoded gateway event
type DiscordUseCaseInterface interface {
	ProcessEvent(ctx context.Context, event models.InboundEvent) error
}
