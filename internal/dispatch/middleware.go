package dispatch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/keshon/herald/internal/command"
	"github.com/keshon/herald/internal/permission"
	"github.com/keshon/herald/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// Next runs a resolved command.
type Next func(ctx context.Context, cmd *command.Command, inv *command.Invocation) error

// Middleware wraps a Next (logging, permission gate, ...).
type Middleware func(Next) Next

// Chain applies middlewares around final; the first in the list is the outermost.
func Chain(final Next, mws ...Middleware) Next {
	for i := len(mws) - 1; i >= 0; i-- {
		final = mws[i](final)
	}
	return final
}

// WithPermissions runs the command only when the invoking member satisfies
// its permission spec. Commands without a spec are open to everyone. deny is
// called instead of the command on refusal.
func WithPermissions(check func(permission.Spec, *discordgo.Member) bool, deny Next) Middleware {
	return func(next Next) Next {
		return func(ctx context.Context, cmd *command.Command, inv *command.Invocation) error {
			if len(cmd.Permissions) == 0 || check(cmd.Permissions, inv.Member) {
				return next(ctx, cmd, inv)
			}
			if deny == nil {
				return nil
			}
			return deny(ctx, cmd, inv)
		}
	}
}

// HistoryRecorder stores executed commands.
type HistoryRecorder interface {
	AppendCommandToHistory(ctx context.Context, guildID string, rec storage.CommandHistoryRecord) error
}

// WithCommandLogger logs each execution and appends it to the guild history
// when a recorder is given. The command runs first.
func WithCommandLogger(logger *slog.Logger, rec HistoryRecorder) Middleware {
	return func(next Next) Next {
		return func(ctx context.Context, cmd *command.Command, inv *command.Invocation) error {
			start := time.Now()
			err := next(ctx, cmd, inv)

			var userID, username string
			if inv.Author != nil {
				userID, username = inv.Author.ID, inv.Author.Username
			}
			attrs := []any{
				"command", cmd.Name,
				"guild", inv.GuildID,
				"channel", inv.ChannelID,
				"user", userID,
				"slash", inv.IsSlash(),
				"took", time.Since(start),
			}
			if err != nil {
				logger.Error("Command failed", append(attrs, "err", err)...)
			} else {
				logger.Info("Command executed", attrs...)
			}

			if rec != nil && inv.GuildID != "" {
				record := storage.CommandHistoryRecord{
					ChannelID: inv.ChannelID,
					UserID:    userID,
					Username:  username,
					Command:   cmd.Name,
					Param:     strings.Join(inv.Args, " "),
					Datetime:  time.Now(),
				}
				if e := rec.AppendCommandToHistory(ctx, inv.GuildID, record); e != nil {
					logger.Warn("Failed to log command", "command", cmd.Name, "err", e)
				}
			}
			return err
		}
	}
}
