package command

import (
	"context"
	"log/slog"

	"github.com/keshon/herald/internal/permission"

	"github.com/bwmarrin/discordgo"
)

// Handler runs a command once its arguments have been coerced. values holds
// one entry per declared argument, in declaration order.
type Handler func(ctx context.Context, inv *Invocation, rt Runtime, values []any) error

// EventHandler handles a gateway event. payload is the decoded discordgo
// event struct.
type EventHandler func(ctx context.Context, rt Runtime, payload any) error

// Command is the canonical descriptor of a loaded command.
type Command struct {
	Name        string
	Description string
	Aliases     []string
	Category    string
	// Usage overrides the generated usage line when set.
	Usage       string
	Permissions permission.Spec
	Args        []Argument

	// Slash marks the command for mirroring as a remote application command.
	Slash        bool
	SlashOptions []*discordgo.ApplicationCommandOption

	Run Handler
}

// Event binds a handler to a gateway event name such as MESSAGE_CREATE.
type Event struct {
	Name string
	Run  EventHandler
}

// Invocation is the context a command runs in. Exactly one of Message and
// Interaction is set.
type Invocation struct {
	GuildID     string
	ChannelID   string
	Author      *discordgo.User
	Member      *discordgo.Member
	Message     *discordgo.Message
	Interaction *discordgo.Interaction
	Args        []string
	// Supplied marks which Args were given. Nil means all of them; slash
	// invocations leave skipped optional options unmarked.
	Supplied []bool
	Prefix   string
}

// IsSlash reports whether the invocation came from an interaction.
func (inv *Invocation) IsSlash() bool { return inv.Interaction != nil }

// ArgTokens returns the tokens argument i sees: its own token followed by the
// rest of the supplied tokens. It is empty when argument i was not given.
func (inv *Invocation) ArgTokens(i int) []string {
	if i >= len(inv.Args) || !inv.supplied(i) {
		return nil
	}
	if inv.Supplied == nil {
		return inv.Args[i:]
	}
	tokens := make([]string, 0, len(inv.Args)-i)
	for j := i; j < len(inv.Args); j++ {
		if inv.supplied(j) {
			tokens = append(tokens, inv.Args[j])
		}
	}
	return tokens
}

func (inv *Invocation) supplied(i int) bool {
	return inv.Supplied == nil || (i < len(inv.Supplied) && inv.Supplied[i])
}

// Reply is what a handler sends back to the invoking channel or interaction.
type Reply struct {
	Content   string
	Embed     *discordgo.MessageEmbed
	Ephemeral bool
}

// Runtime is the client surface handlers see.
type Runtime interface {
	// Session is nil when running without a live gateway connection.
	Session() *discordgo.Session
	Logger() *slog.Logger
	Reply(ctx context.Context, inv *Invocation, r Reply) error

	Prefix(guildID string) string
	CheckPermissions(spec permission.Spec, m *discordgo.Member) bool
	Command(name string) *Command
	CommandUsage(c *Command, guildID string) string
	Categories() []string
	CommandsFromCategory(category string) []*Command
	Module(name string) any
}
