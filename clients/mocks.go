package clients

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/appellation/chess/models"
)

// MockGameClient is a mock implementation of GameClient
type MockGameClient struct {
	mock.Mock
}

func (m *MockGameClient) CreateGame(
	ctx context.Context,
	actor models.Actor,
	targetID string,
) (*models.GameSnapshot, error) {
	args := m.Called(ctx, actor, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameSnapshot), args.Error(1)
}

func (m *MockGameClient) GetCurrentGame(ctx context.Context, actor models.Actor) (*models.GameSnapshot, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameSnapshot), args.Error(1)
}

func (m *MockGameClient) MakeMove(ctx context.Context, actor models.Actor, move string) (*models.GameSnapshot, error) {
	args := m.Called(ctx, actor, move)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameSnapshot), args.Error(1)
}

func (m *MockGameClient) Resign(ctx context.Context, actor models.Actor) (*models.GameSnapshot, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameSnapshot), args.Error(1)
}

func (m *MockGameClient) GetPreviousGame(ctx context.Context, actor models.Actor) (*models.PreviousGame, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PreviousGame), args.Error(1)
}

// MockDiscordClient is a mock implementation of DiscordClient
type MockDiscordClient struct {
	mock.Mock
}

func (m *MockDiscordClient) SendChannelMessage(ctx context.Context, channelID, content string) error {
	args := m.Called(ctx, channelID, content)
	return args.Error(0)
}

func (m *MockDiscordClient) RespondInteraction(
	ctx context.Context,
	interactionID, token string,
	response InteractionResponse,
) error {
	args := m.Called(ctx, interactionID, token, response)
	return args.Error(0)
}

// MockEventSource is a mock implementation of EventSource
type MockEventSource struct {
	mock.Mock
}

func (m *MockEventSource) Subscribe(ctx context.Context, events []string, handler EventHandlerFunc) error {
	args := m.Called(ctx, events, handler)
	return args.Error(0)
}

func (m *MockEventSource) Close() error {
	args := m.Called()
	return args.Error(0)
}
