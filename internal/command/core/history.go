package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/herald/internal/command"
	"github.com/keshon/herald/internal/permission"
	"github.com/keshon/herald/internal/storage"
)

// StorageModule is the module name the history command reads from.
const StorageModule = "storage"

const (
	discordMaxMessageLength = 2000
	codeLeftBlockWrapper    = "```md"
	codeRightBlockWrapper   = "```"
)

var maxContentLength = discordMaxMessageLength - len(codeLeftBlockWrapper) - len(codeRightBlockWrapper) - 2

type historyReader interface {
	FetchCommandHistory(ctx context.Context, guildID string) ([]storage.CommandHistoryRecord, error)
}

// CommandsLog lists the latest commands run in the guild, newest first.
func CommandsLog() *command.Command {
	return &command.Command{
		Name:        "commands-log",
		Description: "Review recent commands",
		Aliases:     []string{"history"},
		Category:    "Settings",
		Permissions: permission.Any("ADMINISTRATOR"),
		Run: func(ctx context.Context, inv *command.Invocation, rt command.Runtime, _ []any) error {
			store, ok := rt.Module(StorageModule).(historyReader)
			if !ok || inv.GuildID == "" {
				return rt.Reply(ctx, inv, command.Reply{Content: "Command history is not available here.", Ephemeral: true})
			}
			records, err := store.FetchCommandHistory(ctx, inv.GuildID)
			if err != nil {
				return fmt.Errorf("fetch command history: %w", err)
			}
			if len(records) == 0 {
				return rt.Reply(ctx, inv, command.Reply{Content: "No command history found.", Ephemeral: true})
			}
			return rt.Reply(ctx, inv, command.Reply{Content: FormatHistory(records), Ephemeral: true})
		},
	}
}

// FormatHistory renders records newest first as a markdown block that fits
// one message.
func FormatHistory(records []storage.CommandHistoryRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-19s\t%-15s\t%s\n", "# Datetime", "# Username", "# Command"))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		line := fmt.Sprintf("%-19s\t%-15s\t%s %s\n",
			r.Datetime.Format("2006-01-02 15:04:05"), r.Username, r.Command, r.Param)
		if b.Len()+len(line) > maxContentLength {
			break
		}
		b.WriteString(line)
	}
	return codeLeftBlockWrapper + "\n" + b.String() + codeRightBlockWrapper
}
