package discord

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appellation/chess/clients"
)

// overrideEndpoints points discordgo at server for the duration of the test
func overrideEndpoints(t *testing.T, server *httptest.Server) {
	t.Helper()

	originalChannels := discordgo.EndpointChannels
	originalInteraction := discordgo.EndpointInteraction
	discordgo.EndpointChannels = server.URL + "/channels/"
	discordgo.EndpointInteraction = func(aID, iToken string) string {
		return server.URL + "/interactions/" + aID + "/" + iToken
	}
	t.Cleanup(func() {
		discordgo.EndpointChannels = originalChannels
		discordgo.EndpointInteraction = originalInteraction
	})
}

func TestDiscordClient_SendChannelMessage_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/channels/c1/messages", r.URL.Path)
		assert.Equal(t, "Bot test-token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pong", body["content"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"m1","channel_id":"c1","content":"pong"}`))
	}))
	defer server.Close()
	overrideEndpoints(t, server)

	client, err := NewDiscordClient(server.Client(), "test-token")
	require.NoError(t, err)

	err = client.SendChannelMessage(context.Background(), "c1", "pong")
	assert.NoError(t, err)
}

func TestDiscordClient_SendChannelMessage_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Missing Access","code":50001}`))
	}))
	defer server.Close()
	overrideEndpoints(t, server)

	client, err := NewDiscordClient(server.Client(), "test-token")
	require.NoError(t, err)

	err = client.SendChannelMessage(context.Background(), "c1", "pong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send message to channel c1")

	var restErr *discordgo.RESTError
	require.True(t, errors.As(err, &restErr))
	assert.Equal(t, http.StatusForbidden, restErr.Response.StatusCode)
}

func TestDiscordClient_RespondInteraction_WithContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/interactions/i1/tok/callback", r.URL.Path)

		var body struct {
			Type int `json:"type"`
			Data struct {
				Content         string `json:"content"`
				AllowedMentions struct {
					Parse []string `json:"parse"`
				} `json:"allowed_mentions"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 4, body.Type)
		assert.Equal(t, "no game", body.Data.Content)
		assert.Equal(t, []string{"users"}, body.Data.AllowedMentions.Parse)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()
	overrideEndpoints(t, server)

	client, err := NewDiscordClient(server.Client(), "test-token")
	require.NoError(t, err)

	err = client.RespondInteraction(context.Background(), "i1", "tok", clients.InteractionResponse{
		Type:    clients.InteractionResponseChannelMessage,
		Content: mo.Some("no game"),
	})
	assert.NoError(t, err)
}

func TestDiscordClient_RespondInteraction_Pong(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(1), body["type"])
		assert.Nil(t, body["data"])

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()
	overrideEndpoints(t, server)

	client, err := NewDiscordClient(server.Client(), "test-token")
	require.NoError(t, err)

	err = client.RespondInteraction(context.Background(), "i1", "tok", clients.InteractionResponse{
		Type: clients.InteractionResponsePong,
	})
	assert.NoError(t, err)
}
