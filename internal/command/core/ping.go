// Package core holds the modules compiled into the herald binary.
package core

import (
	"context"
	"fmt"

	"github.com/keshon/herald/internal/command"
	"github.com/keshon/herald/internal/loader"
)

func init() {
	loader.RegisterCommand(Ping())
	loader.RegisterModule(&command.Module{Command: Prefix()})
	loader.RegisterCommand(Reload())
	loader.RegisterCommand(CommandsLog())
	loader.RegisterEvent(GuildCreate())
}

func Ping() *command.Command {
	return &command.Command{
		Name:        "ping",
		Description: "Check bot latency",
		Category:    "Maintenance",
		Slash:       true,
		Run: func(ctx context.Context, inv *command.Invocation, rt command.Runtime, _ []any) error {
			content := "🏓 Pong!"
			if s := rt.Session(); s != nil {
				content = fmt.Sprintf("🏓 Pong! %dms", s.HeartbeatLatency().Milliseconds())
			}
			return rt.Reply(ctx, inv, command.Reply{Content: content})
		},
	}
}
