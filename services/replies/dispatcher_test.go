package replies

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/appellation/chess/clients"
	"github.com/appellation/chess/models"
)

func TestDispatcher_Send_Channel(t *testing.T) {
	discordClient := new(clients.MockDiscordClient)
	discordClient.On("SendChannelMessage", mock.Anything, "c1", "pong").Return(nil)

	dispatcher := NewDispatcher(discordClient)
	err := dispatcher.Send(context.Background(), models.NewChannelTarget("c1"), "pong")

	require.NoError(t, err)
	discordClient.AssertExpectations(t)
	discordClient.AssertNotCalled(t, "RespondInteraction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcher_Send_Interaction(t *testing.T) {
	discordClient := new(clients.MockDiscordClient)
	discordClient.On("RespondInteraction", mock.Anything, "i1", "tok", clients.InteractionResponse{
		Type:    clients.InteractionResponseChannelMessage,
		Content: mo.Some("no game"),
	}).Return(nil)

	dispatcher := NewDispatcher(discordClient)
	err := dispatcher.Send(context.Background(), models.NewInteractionTarget("i1", "tok"), "no game")

	require.NoError(t, err)
	discordClient.AssertExpectations(t)
	discordClient.AssertNotCalled(t, "SendChannelMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcher_Send_FailureIsReturnedOnce(t *testing.T) {
	discordClient := new(clients.MockDiscordClient)
	discordClient.On("SendChannelMessage", mock.Anything, "c1", "pong").Return(errors.New("boom")).Once()

	dispatcher := NewDispatcher(discordClient)
	err := dispatcher.Send(context.Background(), models.NewChannelTarget("c1"), "pong")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel:c1")
	assert.Contains(t, err.Error(), "boom")
	discordClient.AssertNumberOfCalls(t, "SendChannelMessage", 1)
}

func TestDispatcher_SendPong(t *testing.T) {
	discordClient := new(clients.MockDiscordClient)
	discordClient.On("RespondInteraction", mock.Anything, "i1", "tok", clients.InteractionResponse{
		Type: clients.InteractionResponsePong,
	}).Return(nil)

	dispatcher := NewDispatcher(discordClient)
	err := dispatcher.SendPong(context.Background(), models.NewInteractionTarget("i1", "tok"))

	require.NoError(t, err)
	discordClient.AssertExpectations(t)
}

func TestDispatcher_SendPong_RequiresInteraction(t *testing.T) {
	discordClient := new(clients.MockDiscordClient)

	dispatcher := NewDispatcher(discordClient)
	err := dispatcher.SendPong(context.Background(), models.NewChannelTarget("c1"))

	assert.Error(t, err)
	discordClient.AssertNotCalled(t, "RespondInteraction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
