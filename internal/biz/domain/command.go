package domain

import "strings"

// CommandKind classifies the text of an inbound message
type CommandKind int

const (
	// CommandNoop is any text that is not a recognized command
	CommandNoop CommandKind = iota
	// CommandRemoveSelf asks to be removed from the subscriber list
	CommandRemoveSelf
	// CommandSetConfig sets one configuration value
	CommandSetConfig
)

// Command is the parsed form of an inbound message text
type Command struct {
	Kind     CommandKind
	Password string
	Setting  string
	Value    string
}

// ParseCommand classifies a message text. It is pure and deterministic.
//
// Grammar: "remove me" (case-insensitive, exact) or
// "config <password> <setting> <value>" (case-insensitive keyword,
// exactly 4 whitespace-separated tokens). Everything else is a noop.
func ParseCommand(text string) Command {
	if strings.EqualFold(strings.TrimSpace(text), "remove me") {
		return Command{Kind: CommandRemoveSelf}
	}

	fields := strings.Fields(text)
	if len(fields) == 4 && strings.EqualFold(fields[0], "config") {
		return Command{
			Kind:     CommandSetConfig,
			Password: fields[1],
			Setting:  fields[2],
			Value:    fields[3],
		}
	}

	return Command{Kind: CommandNoop}
}
