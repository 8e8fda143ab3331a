package discord

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/appellation/chess/models"
)

// MockDiscordUseCase is a mock implementation of the DiscordUseCase
type MockDiscordUseCase struct {
	mock.Mock
}

func (m *MockDiscordUseCase) ProcessEvent(ctx context.Context, event models.InboundEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
