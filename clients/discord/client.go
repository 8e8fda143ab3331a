package discord

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/appellation/chess/clients"
)

// Client implements the clients.DiscordClient interface over the Discord REST API.
// The session is never opened; gateway events arrive through the broker instead.
type Client struct {
	session *discordgo.Session
}

// NewDiscordClient creates a REST-only Discord client authenticated as the bot
func NewDiscordClient(httpClient *http.Client, botToken string) (clients.DiscordClient, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	if httpClient != nil {
		session.Client = httpClient
	}

	return &Client{session: session}, nil
}

// SendChannelMessage posts content to a channel
func (c *Client) SendChannelMessage(ctx context.Context, channelID, content string) error {
	_, err := c.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return nil
}

// RespondInteraction answers an interaction through its callback endpoint
func (c *Client) RespondInteraction(
	ctx context.Context,
	interactionID, token string,
	response clients.InteractionResponse,
) error {
	interaction := &discordgo.Interaction{
		ID:    interactionID,
		Token: token,
	}

	sdkResponse := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseType(response.Type),
	}
	if content, ok := response.Content.Get(); ok {
		sdkResponse.Data = &discordgo.InteractionResponseData{
			Content: content,
			AllowedMentions: &discordgo.MessageAllowedMentions{
				Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
			},
		}
	}

	if err := c.session.InteractionRespond(interaction, sdkResponse, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to respond to interaction %s: %w", interactionID, err)
	}
	return nil
}
