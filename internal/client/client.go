// Package client is the composition root handlers talk to: registry,
// prefixes, permission evaluation, coercion and reloads.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/keshon/herald/internal/coerce"
	"github.com/keshon/herald/internal/command"
	"github.com/keshon/herald/internal/dispatch"
	"github.com/keshon/herald/internal/help"
	"github.com/keshon/herald/internal/loader"
	"github.com/keshon/herald/internal/permission"
	"github.com/keshon/herald/internal/prefix"
	"github.com/keshon/herald/internal/slashsync"

	"github.com/bwmarrin/discordgo"
)

// Platform is everything the client needs from the chat service.
type Platform interface {
	coerce.Directory
	permission.Resolver
	slashsync.Remote
	Reply(ctx context.Context, inv *command.Invocation, r command.Reply) error
}

type Options struct {
	Prefix                    string
	Permissions               permission.Table
	Help                      *help.Style
	DeleteUnusedSlashCommands bool
	CommandLoadedMessage      bool
	EventLoadedMessage        bool
	SyncPace                  time.Duration
	// Modules are user values reachable from handlers through Runtime.Module.
	Modules map[string]any
	// Prefixes persists per-guild prefixes when set.
	Prefixes prefix.Store
	// History records routed commands when set.
	History dispatch.HistoryRecorder
	// Output receives the loaded command and event tables; os.Stdout by default.
	Output io.Writer
	// EventWorkers bounds concurrent event handlers per emitted event.
	EventWorkers int
}

type Client struct {
	platform  Platform
	session   *discordgo.Session
	loader    *loader.Loader
	registry  *command.Registry
	prefixes  *prefix.Table
	evaluator *permission.Evaluator
	coercer   *coerce.Coercer
	syncer    *slashsync.Syncer
	router    *dispatch.Router
	opts      Options
	log       *slog.Logger

	reloadMu sync.Mutex
}

// New wires a client. session may be nil when there is no live gateway.
func New(platform Platform, session *discordgo.Session, ld *loader.Loader, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.EventWorkers <= 0 {
		opts.EventWorkers = 4
	}
	c := &Client{
		platform:  platform,
		session:   session,
		loader:    ld,
		registry:  command.NewRegistry(),
		prefixes:  prefix.NewTable(opts.Prefix, opts.Prefixes),
		evaluator: permission.NewEvaluator(platform, opts.Permissions),
		opts:      opts,
		log:       logger,
	}
	c.coercer = coerce.New(platform, c)
	c.syncer = slashsync.New(platform, slashsync.Options{
		BuiltInHelp:  opts.Help != nil,
		HelpName:     help.Name,
		DeleteUnused: opts.DeleteUnusedSlashCommands,
		Pace:         opts.SyncPace,
	}, logger)

	run := dispatch.Chain(c.RunCommand,
		dispatch.WithPermissions(c.CheckPermissions, c.deny),
		dispatch.WithCommandLogger(logger, opts.History),
	)
	c.router = dispatch.NewRouter(func() dispatch.Lookup { return c.registry.Load() }, c.prefixes, run)
	return c
}

func (c *Client) Session() *discordgo.Session { return c.session }
func (c *Client) Logger() *slog.Logger        { return c.log }
func (c *Client) Router() *dispatch.Router    { return c.router }
func (c *Client) Prefixes() *prefix.Table     { return c.prefixes }

func (c *Client) Reply(ctx context.Context, inv *command.Invocation, r command.Reply) error {
	return c.platform.Reply(ctx, inv, r)
}

func (c *Client) Prefix(guildID string) string { return c.prefixes.Prefix(guildID) }

// LoadPrefixes merges guild prefixes from maps, pair lists or records.
func (c *Client) LoadPrefixes(sources ...any) (map[string]string, error) {
	return c.prefixes.Load(sources...)
}

// SetPrefix changes and persists a guild prefix.
func (c *Client) SetPrefix(ctx context.Context, guildID, p string) error {
	return c.prefixes.Set(ctx, guildID, p)
}

func (c *Client) CheckPermissions(spec permission.Spec, m *discordgo.Member) bool {
	return c.evaluator.Check(spec, m)
}

// Find implements command lookup for the coercer.
func (c *Client) Find(name string) *command.Command { return c.registry.Load().Find(name) }

func (c *Client) Command(name string) *command.Command { return c.Find(name) }

func (c *Client) Commands() []*command.Command { return c.registry.Load().Commands() }

func (c *Client) Categories() []string { return c.registry.Load().Categories() }

func (c *Client) CommandsFromCategory(category string) []*command.Command {
	return c.registry.Load().Category(category)
}

// GetParameters returns the declared arguments of cmd.
func (c *Client) GetParameters(cmd *command.Command) []command.Argument {
	if cmd == nil {
		return nil
	}
	return cmd.Args
}

// CommandUsage returns cmd.Usage, or "<prefix><name> <arg> <optional?>".
func (c *Client) CommandUsage(cmd *command.Command, guildID string) string {
	if cmd == nil {
		return ""
	}
	if cmd.Usage != "" {
		return cmd.Usage
	}
	var sb strings.Builder
	sb.WriteString(c.Prefix(guildID))
	sb.WriteString(cmd.Name)
	for _, a := range cmd.Args {
		sb.WriteString(" <")
		sb.WriteString(a.Name)
		if !a.IsRequired() {
			sb.WriteString("?")
		}
		sb.WriteString(">")
	}
	return sb.String()
}

func (c *Client) Module(name string) any { return c.opts.Modules[name] }

// RunCommand coerces the invocation arguments and calls the handler. It
// does not check permissions.
func (c *Client) RunCommand(ctx context.Context, cmd *command.Command, inv *command.Invocation) error {
	return dispatch.RunCommand(ctx, c.coercer, cmd, inv, c)
}

func (c *Client) deny(ctx context.Context, cmd *command.Command, inv *command.Invocation) error {
	return c.Reply(ctx, inv, command.Reply{
		Content:   fmt.Sprintf("You need %s to use `%s`.", c.describeSpec(cmd.Permissions, inv.GuildID), cmd.Name),
		Ephemeral: true,
	})
}

// describeSpec renders a spec with mentions for users and roles and labels
// for permission flags.
func (c *Client) describeSpec(spec permission.Spec, guildID string) string {
	atom := func(a string) string {
		switch {
		case c.platform.IsUser(a):
			return "<@" + a + ">"
		case guildID != "" && c.platform.IsRole(guildID, a):
			return "<@&" + a + ">"
		case permission.IsFlag(a):
			return permission.Label(a)
		}
		return a
	}
	parts := make([]string, 0, len(spec))
	for _, e := range spec {
		if !e.IsGroup() {
			parts = append(parts, atom(e.Atom))
			continue
		}
		group := make([]string, len(e.AllOf))
		for i, a := range e.AllOf {
			group[i] = atom(a)
		}
		parts = append(parts, strings.Join(group, " and "))
	}
	return strings.Join(parts, " or ")
}
