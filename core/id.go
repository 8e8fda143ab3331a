package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventIDPrefix tags correlation ids of inbound gateway events
const EventIDPrefix = "evt"

// NewEventID returns a correlation id for one inbound event, e.g. "evt_01G0EZ1XTM37C5X11SQTDNCTM1"
func NewEventID() string {
	return NewID(EventIDPrefix)
}

// NewID returns "<prefix>_<ULID>". The prefix is trimmed and lowercased and must not be blank.
func NewID(prefix string) string {
	cleanPrefix := strings.ToLower(strings.TrimSpace(prefix))
	if cleanPrefix == "" {
		panic("id prefix cannot be empty")
	}

	return cleanPrefix + "_" + ulid.Make().String()
}

// IDTime returns the creation time encoded in an id made by NewID
func IDTime(id string) (time.Time, error) {
	sep := strings.LastIndex(id, "_")
	if sep < 0 {
		return time.Time{}, fmt.Errorf("id %q has no prefix", id)
	}

	parsed, err := ulid.ParseStrict(id[sep+1:])
	if err != nil {
		return time.Time{}, fmt.Errorf("id %q is not a ULID: %w", id, err)
	}
	return ulid.Time(parsed.Time()), nil
}
