package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameSnapshot_DecodeResult(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected GameResult
		present  bool
	}{
		{name: "null result", body: `{"id":"g1","result":null}`, present: false},
		{name: "absent result", body: `{"id":"g1"}`, present: false},
		{name: "checkmate", body: `{"id":"g1","result":"WhiteCheckmates"}`, expected: GameResultWhiteCheckmates, present: true},
		{name: "unlisted result", body: `{"id":"g1","result":"Timeout"}`, expected: GameResult("Timeout"), present: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var snapshot GameSnapshot
			require.NoError(t, json.Unmarshal([]byte(tt.body), &snapshot))

			result, ok := snapshot.Result.Get()
			assert.Equal(t, tt.present, ok)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestPreviousGame_DecodeEmbeddedSnapshot(t *testing.T) {
	body := `{"id":"g0","side_to_move":"Black","board":"fen","moves":["e4"],"result":"Stalemate","pgn":"1. e4"}`

	var previous PreviousGame
	require.NoError(t, json.Unmarshal([]byte(body), &previous))

	assert.Equal(t, "g0", previous.ID)
	assert.Equal(t, ColorBlack, previous.SideToMove)
	assert.Equal(t, "1. e4", previous.PGN)
	assert.Equal(t, GameResultStalemate, previous.Result.MustGet())
}

func TestPreviousGame_DecodeNullResult(t *testing.T) {
	body := `{"id":"g0","side_to_move":"White","board":"fen","moves":[],"result":null,"pgn":"*"}`

	var previous PreviousGame
	require.NoError(t, json.Unmarshal([]byte(body), &previous))

	assert.Equal(t, "g0", previous.ID)
	assert.True(t, previous.Result.IsAbsent())
	assert.Equal(t, "*", previous.PGN)
}

func TestSide_DiscordAccountID(t *testing.T) {
	side := Side{Accounts: []Account{
		{AccountType: "Lichess", AccountID: "l1"},
		{AccountType: AccountTypeDiscord, AccountID: "42"},
	}}
	assert.Equal(t, "42", side.DiscordAccountID())
	assert.Equal(t, "", Side{}.DiscordAccountID())
}

func TestGameSnapshot_SideOf(t *testing.T) {
	snapshot := &GameSnapshot{White: Side{ID: "w"}, Black: Side{ID: "b"}}

	assert.Equal(t, "w", snapshot.SideOf(ColorWhite).ID)
	assert.Equal(t, "b", snapshot.SideOf(ColorBlack).ID)
	assert.Equal(t, "white", ColorWhite.Lower())
}

func TestMoveRequest_Encode(t *testing.T) {
	move, err := json.Marshal(MoveRequest{Action: MoveActionMakeMove, Data: "e4"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"MakeMove","data":"e4"}`, string(move))

	resign, err := json.Marshal(MoveRequest{Action: MoveActionResign})
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"Resign"}`, string(resign))
}

func TestArguments_Next(t *testing.T) {
	args := ParsedCommand{Name: "move", Args: []string{"e4", "e5"}}.Arguments()

	first, err := args.Next()
	require.NoError(t, err)
	assert.Equal(t, "e4", first)
	assert.Equal(t, 1, args.Remaining())

	second, err := args.Next()
	require.NoError(t, err)
	assert.Equal(t, "e5", second)

	_, err = args.Next()
	assert.ErrorIs(t, err, ErrArgumentMissing)
	assert.Equal(t, 0, args.Remaining())
}

func TestReplyTarget(t *testing.T) {
	channel := NewChannelTarget("c1")
	interaction := NewInteractionTarget("i1", "secret-token")

	assert.False(t, channel.IsInteraction())
	assert.Equal(t, "channel:c1", channel.String())
	assert.True(t, interaction.IsInteraction())
	assert.Equal(t, "interaction:i1", interaction.String())
	assert.NotContains(t, interaction.String(), "secret-token")
}
