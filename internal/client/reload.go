package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/keshon/herald/internal/command"
	"github.com/keshon/herald/internal/help"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
)

// Reload loads every module, syncs slash commands and swaps the registry.
// The returned summary counts loaded commands, not the built-in help.
// Reloads are serialized; dispatch keeps reading the previous snapshot until
// the swap.
func (c *Client) Reload(ctx context.Context) (string, error) {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	log := c.log.With("reload", uuid.NewString())
	start := time.Now()

	cmds, events, err := c.loader.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load modules: %w", err)
	}
	loaded := len(cmds)
	log.Debug("Modules loaded", "took", time.Since(start))

	if c.opts.Help != nil {
		if cmds, err = help.Inject(cmds, help.Command(*c.opts.Help)); err != nil {
			return "", err
		}
	}

	report, err := c.syncer.Sync(ctx, cmds)
	if err != nil {
		return "", err
	}
	log.Debug("Slash commands synced",
		"created", len(report.Created),
		"edited", len(report.Edited),
		"deleted", len(report.Deleted),
		"took", time.Since(start))

	c.registry.Swap(command.NewSnapshot(cmds, events))
	log.Debug("Events bound", "took", time.Since(start))

	if c.opts.CommandLoadedMessage {
		fmt.Fprintln(c.opts.Output, CommandTable(cmds))
	}
	if c.opts.EventLoadedMessage {
		fmt.Fprintln(c.opts.Output, EventTable(events))
	}

	summary := fmt.Sprintf("Reloaded %d commands, %d events, and %d modules.", loaded, len(events), len(c.opts.Modules))
	log.Info(summary, "took", time.Since(start))
	return summary, nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// CommandTable renders the loaded commands.
func CommandTable(cmds []*command.Command) string {
	t := newTable("name", "description", "aliases", "permissions", "category", "slash", "args")
	for _, c := range cmds {
		args := make([]string, len(c.Args))
		for i, a := range c.Args {
			args[i] = a.Name + ":" + string(a.Type)
		}
		t.Row(
			c.Name,
			c.Description,
			strings.Join(c.Aliases, ", "),
			c.Permissions.String(),
			c.Category,
			fmt.Sprint(c.Slash),
			strings.Join(args, " "),
		)
	}
	return t.String()
}

// EventTable renders the bound events.
func EventTable(events []*command.Event) string {
	t := newTable("event", "handler")
	for _, e := range events {
		t.Row(e.Name, fmt.Sprintf("%T", e.Run))
	}
	return t.String()
}
