// Package help synthesizes the built-in help command.
package help

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/keshon/herald/internal/coerce"
	"github.com/keshon/herald/internal/command"

	"github.com/bwmarrin/discordgo"
)

const Name = "help"

var ErrNameCollision = errors.New("a loaded command overrides the built-in help command; choose one or the other")

// Style configures the embed the help command answers with.
type Style struct {
	SlashCommand bool   `json:"slashCommand" toml:"slashCommand"`
	Title        string `json:"title" toml:"title"`
	Color        string `json:"color" toml:"color"`
	Description  string `json:"description" toml:"description"`
	Footer       string `json:"footer" toml:"footer"`
}

// Command builds the help descriptor.
func Command(style Style) *command.Command {
	return &command.Command{
		Name:        Name,
		Description: "Get a list of available commands",
		Category:    "Information",
		Args: []command.Argument{
			{Name: "command", Description: "Command to describe", Type: command.ArgCommand, Required: command.Optional()},
		},
		Slash: style.SlashCommand,
		SlashOptions: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "command",
				Description: "Command to describe",
			},
		},
		Run: func(ctx context.Context, inv *command.Invocation, rt command.Runtime, values []any) error {
			embed := &discordgo.MessageEmbed{Title: style.Title, Color: embedColor(style.Color)}
			if embed.Title == "" {
				embed.Title = "Help"
			}
			if style.Footer != "" {
				embed.Footer = &discordgo.MessageEmbedFooter{Text: style.Footer}
			}
			if c, ok := first(values).(*command.Command); ok {
				embed.Description = describe(rt, c, inv.GuildID)
			} else {
				embed.Description = overview(rt, style, inv)
			}
			return rt.Reply(ctx, inv, command.Reply{Embed: embed, Ephemeral: true})
		},
	}
}

// Inject appends help to cmds, failing when a loaded command already uses
// the help name as its name or an alias.
func Inject(cmds []*command.Command, help *command.Command) ([]*command.Command, error) {
	for _, c := range cmds {
		if strings.EqualFold(c.Name, help.Name) {
			return nil, fmt.Errorf("%w: command %q", ErrNameCollision, c.Name)
		}
		for _, a := range c.Aliases {
			if strings.EqualFold(a, help.Name) {
				return nil, fmt.Errorf("%w: alias of %q", ErrNameCollision, c.Name)
			}
		}
	}
	out := make([]*command.Command, 0, len(cmds)+1)
	out = append(out, cmds...)
	return append(out, help), nil
}

func first(values []any) any {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

func embedColor(s string) int {
	if s == "" {
		return 0
	}
	c, err := coerce.ParseColor(s)
	if err != nil {
		return 0
	}
	return c
}

func overview(rt command.Runtime, style Style, inv *command.Invocation) string {
	var sb strings.Builder
	if style.Description != "" {
		sb.WriteString(style.Description + "\n\n")
	}
	for _, cat := range rt.Categories() {
		var lines []string
		for _, c := range rt.CommandsFromCategory(cat) {
			if len(c.Permissions) > 0 && !rt.CheckPermissions(c.Permissions, inv.Member) {
				continue
			}
			lines = append(lines, fmt.Sprintf("`%s` - %s", c.Name, c.Description))
		}
		if len(lines) == 0 {
			continue
		}
		title := cat
		if title == "" {
			title = "Other"
		}
		sb.WriteString(fmt.Sprintf("**%s**\n", title))
		sb.WriteString(strings.Join(lines, "\n"))
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String())
}

func describe(rt command.Runtime, c *command.Command, guildID string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s**\n%s\n\n", c.Name, c.Description))
	sb.WriteString(fmt.Sprintf("Usage: `%s`\n", rt.CommandUsage(c, guildID)))
	if len(c.Aliases) > 0 {
		sb.WriteString(fmt.Sprintf("Aliases: %s\n", strings.Join(c.Aliases, ", ")))
	}
	if len(c.Permissions) > 0 {
		sb.WriteString(fmt.Sprintf("Permissions: %s\n", c.Permissions))
	}
	for _, a := range c.Args {
		opt := ""
		if !a.IsRequired() {
			opt = ", optional"
		}
		sb.WriteString(fmt.Sprintf("`%s` (%s%s) %s\n", a.Name, a.Type.Label(), opt, a.Description))
	}
	return strings.TrimSpace(sb.String())
}
