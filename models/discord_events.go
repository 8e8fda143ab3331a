package models

// EventKind discriminates the two inbound flows the bot consumes
type EventKind string

const (
	EventKindTextMessage EventKind = "TextMessage"
	EventKindInteraction EventKind = "Interaction"
)

// InteractionType mirrors the platform's interaction type codes
type InteractionType int

const (
	InteractionTypePing               InteractionType = 1
	InteractionTypeApplicationCommand InteractionType = 2
)

// CommandOption is one (name, value) pair of a structured interaction, in declaration order
type CommandOption struct {
	Name  string
	Value string
}

type InboundEvent struct {
	ID     string
	Kind   EventKind
	Actor  Actor
	Target ReplyTarget

	// Content is the raw message text (text flow only)
	Content string
	// AuthorIsBot is set for messages written by bot accounts (text flow only)
	AuthorIsBot bool

	// InteractionType, CommandName and Options are set for the interaction flow only
	InteractionType InteractionType
	CommandName     string
	Options         []CommandOption
}

// IsPing reports whether the event is an interaction liveness probe
func (e InboundEvent) IsPing() bool {
	return e.Kind == EventKindInteraction && e.InteractionType == InteractionTypePing
}

// ReplyTarget is either a channel (text flow) or an interaction id+token (interaction flow)
type ReplyTarget struct {
	ChannelID        string
	InteractionID    string
	InteractionToken string
}

func NewChannelTarget(channelID string) ReplyTarget {
	return ReplyTarget{ChannelID: channelID}
}

func NewInteractionTarget(interactionID, token string) ReplyTarget {
	return ReplyTarget{InteractionID: interactionID, InteractionToken: token}
}

func (t ReplyTarget) IsInteraction() bool {
	return t.InteractionID != ""
}

// String returns a log-friendly description without exposing the interaction token
func (t ReplyTarget) String() string {
	if t.IsInteraction() {
		return "interaction:" + t.InteractionID
	}
	return "channel:" + t.ChannelID
}
