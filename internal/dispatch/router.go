package dispatch

import (
	"context"

	"github.com/keshon/herald/internal/command"

	"github.com/bwmarrin/discordgo"
)

// Lookup finds a command by name or alias.
type Lookup interface {
	Find(name string) *command.Command
}

// Prefixes resolves the text prefix of a guild.
type Prefixes interface {
	Prefix(guildID string) string
}

// Router turns gateway messages and interactions into invocations.
type Router struct {
	commands func() Lookup
	prefixes Prefixes
	run      Next
}

// NewRouter builds a router. commands is called per message so the router
// always reads the current registry snapshot.
func NewRouter(commands func() Lookup, prefixes Prefixes, run Next) *Router {
	return &Router{commands: commands, prefixes: prefixes, run: run}
}

// Message routes a text message. handled is false when the message is not
// a command.
func (r *Router) Message(ctx context.Context, m *discordgo.Message) (handled bool, err error) {
	if m == nil || m.Author == nil || m.Author.Bot {
		return false, nil
	}
	prefix := r.prefixes.Prefix(m.GuildID)
	name, args, ok := Tokenize(m.Content, prefix)
	if !ok {
		return false, nil
	}
	cmd := r.commands().Find(name)
	if cmd == nil {
		return false, nil
	}

	var member *discordgo.Member
	if m.Member != nil && m.GuildID != "" {
		mc := *m.Member
		mc.User = m.Author
		mc.GuildID = m.GuildID
		member = &mc
	}
	inv := &command.Invocation{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Author:    m.Author,
		Member:    member,
		Message:   m,
		Args:      args,
		Prefix:    prefix,
	}
	return true, r.run(ctx, cmd, inv)
}

// Interaction routes an application command interaction to a slash-enabled
// command.
func (r *Router) Interaction(ctx context.Context, i *discordgo.Interaction) (handled bool, err error) {
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return false, nil
	}
	data := i.ApplicationCommandData()
	cmd := r.commands().Find(data.Name)
	if cmd == nil || !cmd.Slash {
		return false, nil
	}

	var (
		author *discordgo.User
		member *discordgo.Member
	)
	if i.Member != nil {
		mc := *i.Member
		mc.GuildID = i.GuildID
		member = &mc
		author = i.Member.User
	} else {
		author = i.User
	}
	args, supplied := OptionTokens(cmd, data.Options)
	inv := &command.Invocation{
		GuildID:     i.GuildID,
		ChannelID:   i.ChannelID,
		Author:      author,
		Member:      member,
		Interaction: i,
		Args:        args,
		Supplied:    supplied,
		Prefix:      "/",
	}
	return true, r.run(ctx, cmd, inv)
}
