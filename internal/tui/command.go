package tui

import (
	"strings"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/render"
	"github.com/matheus3301/mchat/internal/search"
	"github.com/matheus3301/mchat/internal/tui/keys"
)

// Command represents a parsed prompt command.
type Command struct {
	Name string
	Args string
}

var commandAliases = map[string]string{
	"q":    "quit",
	"exit": "quit",
	"h":    "help",
	"c":    "compose",
	"new":  "compose",
	"o":    "open",
	"s":    "search",
	"sb":   "sidebar",
}

// ParseCommand parses a command string, with or without the leading ':'.
// Aliases resolve to their full name.
func ParseCommand(input string) Command {
	input = strings.TrimPrefix(strings.TrimSpace(input), ":")
	parts := strings.SplitN(strings.TrimSpace(input), " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if full, ok := commandAliases[cmd.Name]; ok {
		cmd.Name = full
	}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}

// Key returns the key command with the same effect, if any.
func (c Command) Key() keys.Command {
	switch c.Name {
	case "quit":
		return keys.Quit
	case "help":
		return keys.Help
	case "sidebar":
		return keys.ToggleSidebar
	case "close":
		return keys.CloseChat
	case "compose":
		if c.Args == "" {
			return keys.Compose
		}
	}
	return keys.None
}

// matchConversation returns the first row whose name matches term.
func matchConversation(rows []render.ConversationRow, term string) (int64, bool) {
	if term == "" {
		return 0, false
	}
	for _, r := range rows {
		if search.Match(r.Name, term) {
			return r.UserID, true
		}
	}
	return 0, false
}

// matchUser returns the first user whose full name matches term.
func matchUser(users []api.User, term string) (int64, bool) {
	if term == "" {
		return 0, false
	}
	for _, u := range users {
		if search.Match(u.FullName(), term) {
			return u.ID, true
		}
	}
	return 0, false
}
