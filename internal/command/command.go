// Package command provides the command table for the bot: per-command
// metadata, modules that group commands, and an immutable registry built
// once at startup. Dispatch (reading Discord events, splitting arguments)
// lives in the discord package; this package only maps names to handlers.
package command

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Arg documents a single named argument for help output.
type Arg struct {
	Name string
	Desc string
}

// Help is optional display metadata. Strings may be written as wrapped
// multi-line literals; they are collapsed with SingleLine when help output
// is built, never at registration.
type Help struct {
	Short    string
	Long     string
	Args     []Arg
	Examples []string
}

// Info identifies a command. Every alias resolves to the same handler as
// the primary name.
type Info struct {
	Name    string
	Aliases []string
	Help    *Help
}

// Handler runs one invocation. Args are the whitespace-split, lower-cased
// tokens following the command name.
type Handler func(m *discordgo.Message, args []string) error

// Command is an immutable pairing of Info and a handler, created when a
// module registers it and alive for the process lifetime.
type Command struct {
	Info Info
	Run  Handler
}

// SingleLine collapses a wrapped multi-line help string into one line with
// single spaces.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Parse splits a prefixed message body into a command name and lower-cased
// positional arguments. ok is false when the body does not start with the
// prefix or carries no command name. The name keeps its case; resolution is
// case-sensitive.
func Parse(prefix, body string) (name string, args []string, ok bool) {
	if prefix == "" || !strings.HasPrefix(body, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(body, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	args = make([]string, 0, len(fields)-1)
	for _, f := range fields[1:] {
		args = append(args, strings.ToLower(f))
	}
	return fields[0], args, true
}
