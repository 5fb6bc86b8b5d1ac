package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/keshon/herald/internal/command"
	"github.com/keshon/herald/internal/permission"
)

type prefixSetter interface {
	SetPrefix(ctx context.Context, guildID, prefix string) error
}

// Prefix shows or changes the guild text prefix. "reset" restores the default.
func Prefix() *command.Command {
	return &command.Command{
		Name:        "prefix",
		Description: "Show or change the command prefix of this server",
		Category:    "Settings",
		Permissions: permission.Any("MANAGE_GUILD"),
		Args: []command.Argument{
			{Name: "prefix", Description: "New prefix, or reset", Type: command.ArgString, Required: command.Optional()},
		},
		Run: func(ctx context.Context, inv *command.Invocation, rt command.Runtime, values []any) error {
			next, _ := values[0].(string)
			if next == "" || inv.GuildID == "" {
				return rt.Reply(ctx, inv, command.Reply{Content: fmt.Sprintf("Current prefix: `%s`", rt.Prefix(inv.GuildID))})
			}
			setter, ok := rt.(prefixSetter)
			if !ok {
				return errors.New("runtime cannot change prefixes")
			}
			if next == "reset" {
				next = ""
			}
			if err := setter.SetPrefix(ctx, inv.GuildID, next); err != nil {
				return fmt.Errorf("set prefix: %w", err)
			}
			return rt.Reply(ctx, inv, command.Reply{Content: fmt.Sprintf("Prefix set to `%s`", rt.Prefix(inv.GuildID))})
		},
	}
}
