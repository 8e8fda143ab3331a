package models

import "errors"

// ErrArgumentMissing is returned when a handler asks for more arguments than were supplied
var ErrArgumentMissing = errors.New("argument missing")

// ParsedCommand is a command name plus its positional arguments
type ParsedCommand struct {
	Name string
	Args []string
}

// Arguments returns a fresh cursor over the command's arguments
func (c ParsedCommand) Arguments() *Arguments {
	return NewArguments(c.Args)
}

// Arguments hands out positional arguments one at a time
type Arguments struct {
	values []string
	pos    int
}

func NewArguments(values []string) *Arguments {
	return &Arguments{values: values}
}

// Next returns the next argument and advances the cursor
func (a *Arguments) Next() (string, error) {
	if a.pos >= len(a.values) {
		return "", ErrArgumentMissing
	}
	value := a.values[a.pos]
	a.pos++
	return value, nil
}

// Remaining returns the number of arguments not yet consumed
func (a *Arguments) Remaining() int {
	return len(a.values) - a.pos
}
