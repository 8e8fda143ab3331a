package utils

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/samber/mo"

	"github.com/appellation/chess/models"
)

var discordMentionRegex = regexp.MustCompile(`^<@!?([0-9]+)>$`)

// ParseTextCommand turns a chat message into a command when it starts with prefix.
// Messages that do not match yield None and are meant to be dropped silently.
func ParseTextCommand(prefix string, text string) mo.Option[models.ParsedCommand] {
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return mo.None[models.ParsedCommand]()
	}

	rest := strings.TrimPrefix(text, prefix)

	// The command name is the first token minus the prefix, so ". move" has an empty name
	if first, ok := firstRune(rest); !ok || unicode.IsSpace(first) {
		return mo.None[models.ParsedCommand]()
	}

	tokens := Tokenize(rest)
	if len(tokens) == 0 || tokens[0] == "" {
		return mo.None[models.ParsedCommand]()
	}

	return mo.Some(models.ParsedCommand{
		Name: tokens[0],
		Args: tokens[1:],
	})
}

// ParseInteractionCommand normalizes a structured command into the same positional shape as
// the text path: option values in declaration order, option names ignored
func ParseInteractionCommand(name string, options []models.CommandOption) models.ParsedCommand {
	args := make([]string, 0, len(options))
	for _, option := range options {
		args = append(args, option.Value)
	}

	return models.ParsedCommand{
		Name: name,
		Args: args,
	}
}

// Tokenize splits text on whitespace. Double quotes group a run of text, including
// whitespace, into a single token; an unterminated quote runs to the end of the text.
func Tokenize(text string) []string {
	var (
		tokens  []string
		current strings.Builder
		inToken bool
		quoted  bool
	)

	for _, r := range text {
		switch {
		case r == '"':
			quoted = !quoted
			inToken = true
		case unicode.IsSpace(r) && !quoted:
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}

	if inToken {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// ExtractUserID returns the user id from a mention such as <@123> or <@!123>.
// Anything else is returned trimmed and unchanged.
func ExtractUserID(reference string) string {
	reference = strings.TrimSpace(reference)
	if matches := discordMentionRegex.FindStringSubmatch(reference); len(matches) == 2 {
		return matches[1]
	}
	return reference
}

// Mention renders a user mention; an empty id degrades to an unmentionable placeholder
func Mention(userID string) string {
	return "<@" + userID + ">"
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
