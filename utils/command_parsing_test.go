package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appellation/chess/models"
)

func TestParseTextCommand(t *testing.T) {
	tests := []struct {
		name         string
		prefix       string
		messageText  string
		expectedCmd  bool
		expectedName string
		expectedArgs []string
	}{
		{
			name:         "Move with notation",
			prefix:       ".",
			messageText:  ".move e4",
			expectedCmd:  true,
			expectedName: "move",
			expectedArgs: []string{"e4"},
		},
		{
			name:         "Quoted argument is one token",
			prefix:       ".",
			messageText:  `.challenge "some name"`,
			expectedCmd:  true,
			expectedName: "challenge",
			expectedArgs: []string{"some name"},
		},
		{
			name:         "Command without arguments",
			prefix:       ".",
			messageText:  ".game",
			expectedCmd:  true,
			expectedName: "game",
			expectedArgs: []string{},
		},
		{
			name:         "Extra whitespace between arguments",
			prefix:       ".",
			messageText:  ".move   Nf3    extra  ",
			expectedCmd:  true,
			expectedName: "move",
			expectedArgs: []string{"Nf3", "extra"},
		},
		{
			name:         "Multi character prefix",
			prefix:       "chess!",
			messageText:  "chess!ping",
			expectedCmd:  true,
			expectedName: "ping",
			expectedArgs: []string{},
		},
		{
			name:         "Mention argument kept verbatim",
			prefix:       ".",
			messageText:  ".challenge <@!123456789>",
			expectedCmd:  true,
			expectedName: "challenge",
			expectedArgs: []string{"<@!123456789>"},
		},
		{
			name:        "No prefix",
			prefix:      ".",
			messageText: "move e4",
			expectedCmd: false,
		},
		{
			name:        "Prefix in middle of text",
			prefix:      ".",
			messageText: "please .move e4",
			expectedCmd: false,
		},
		{
			name:        "Prefix alone",
			prefix:      ".",
			messageText: ".",
			expectedCmd: false,
		},
		{
			name:        "Whitespace after prefix",
			prefix:      ".",
			messageText: ". move e4",
			expectedCmd: false,
		},
		{
			name:        "Empty message",
			prefix:      ".",
			messageText: "",
			expectedCmd: false,
		},
		{
			name:        "Case sensitive prefix match",
			prefix:      "Chess",
			messageText: "chessping",
			expectedCmd: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseTextCommand(tt.prefix, tt.messageText)
			assert.Equal(t, tt.expectedCmd, result.IsPresent())
			if !tt.expectedCmd {
				return
			}

			cmd := result.MustGet()
			assert.Equal(t, tt.expectedName, cmd.Name)
			assert.Equal(t, tt.expectedArgs, cmd.Args)
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "plain words", input: "a b c", expected: []string{"a", "b", "c"}},
		{name: "quoted run", input: `a "b c" d`, expected: []string{"a", "b c", "d"}},
		{name: "quote joins adjacent text", input: `x"y z"w`, expected: []string{"xy zw"}},
		{name: "empty quotes yield empty token", input: `a ""`, expected: []string{"a", ""}},
		{name: "unterminated quote runs to end", input: `a "b c`, expected: []string{"a", "b c"}},
		{name: "tabs and newlines split", input: "a\tb\nc", expected: []string{"a", "b", "c"}},
		{name: "only whitespace", input: "   ", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func TestParseInteractionCommand(t *testing.T) {
	cmd := ParseInteractionCommand("challenge", []models.CommandOption{
		{Name: "opponent", Value: "123"},
		{Name: "side", Value: "white"},
	})

	assert.Equal(t, "challenge", cmd.Name)
	assert.Equal(t, []string{"123", "white"}, cmd.Args)

	args := cmd.Arguments()
	first, err := args.Next()
	require.NoError(t, err)
	assert.Equal(t, "123", first)
}

func TestParseInteractionCommand_NoOptions(t *testing.T) {
	cmd := ParseInteractionCommand("game", nil)

	assert.Equal(t, "game", cmd.Name)
	assert.Empty(t, cmd.Args)

	_, err := cmd.Arguments().Next()
	assert.ErrorIs(t, err, models.ErrArgumentMissing)
}

func TestExtractUserID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "<@123456789>", expected: "123456789"},
		{input: "<@!123456789>", expected: "123456789"},
		{input: "  <@42>  ", expected: "42"},
		{input: "123456789", expected: "123456789"},
		{input: "<@abc>", expected: "<@abc>"},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExtractUserID(tt.input), "input %q", tt.input)
	}
}

func TestMention(t *testing.T) {
	assert.Equal(t, "<@42>", Mention("42"))
	assert.Equal(t, "<@>", Mention(""))
}
