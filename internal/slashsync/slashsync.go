// Package slashsync reconciles locally loaded commands with the application
// commands registered on the platform.
package slashsync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/keshon/herald/internal/command"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// Remote is the application command resource.
type Remote interface {
	Fetch(ctx context.Context) ([]*discordgo.ApplicationCommand, error)
	Create(ctx context.Context, def *discordgo.ApplicationCommand) (*discordgo.ApplicationCommand, error)
	Edit(ctx context.Context, id string, def *discordgo.ApplicationCommand) (*discordgo.ApplicationCommand, error)
	Delete(ctx context.Context, id string) error
}

type Options struct {
	// BuiltInHelp protects the remote HelpName command from deletion.
	BuiltInHelp  bool
	HelpName     string
	DeleteUnused bool
	// Pace spaces out create, edit and delete calls. Zero disables pacing.
	Pace time.Duration
}

// Report lists the names touched by one run.
type Report struct {
	Created []string
	Edited  []string
	Deleted []string
}

// Calls is the number of remote mutations issued.
func (r Report) Calls() int { return len(r.Created) + len(r.Edited) + len(r.Deleted) }

type Syncer struct {
	remote  Remote
	opts    Options
	limiter *rate.Limiter
	log     *slog.Logger
}

func New(remote Remote, opts Options, logger *slog.Logger) *Syncer {
	limit := rate.Inf
	if opts.Pace > 0 {
		limit = rate.Every(opts.Pace)
	}
	if opts.HelpName == "" {
		opts.HelpName = "help"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		remote:  remote,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		log:     logger,
	}
}

// Definition is the remote shape of a slash-enabled command.
func Definition(c *command.Command) *discordgo.ApplicationCommand {
	enabled := true
	return &discordgo.ApplicationCommand{
		Type:              discordgo.ChatApplicationCommand,
		Name:              c.Name,
		Description:       c.Description,
		Options:           c.SlashOptions,
		DefaultPermission: &enabled,
	}
}

// Sync fetches the remote set and issues the create, edit and delete calls
// that make it match local. It stops at the first remote error; whatever was
// already applied stays applied and the report says what it was.
func (s *Syncer) Sync(ctx context.Context, local []*command.Command) (Report, error) {
	var report Report

	remote, err := s.remote.Fetch(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch slash commands: %w", err)
	}

	for _, c := range local {
		if !c.Slash {
			continue
		}
		rc := findRemote(remote, c.Name)
		def := Definition(c)
		switch {
		case rc == nil:
			s.log.Warn("Command isn't registered as a slash command, creating it", "command", c.Name)
			if err := s.wait(ctx); err != nil {
				return report, err
			}
			if _, err := s.remote.Create(ctx, def); err != nil {
				return report, fmt.Errorf("create slash command %s: %w", c.Name, err)
			}
			report.Created = append(report.Created, c.Name)
		case !Equal(def, rc):
			if err := s.wait(ctx); err != nil {
				return report, err
			}
			if _, err := s.remote.Edit(ctx, rc.ID, def); err != nil {
				return report, fmt.Errorf("edit slash command %s: %w", c.Name, err)
			}
			s.log.Info("Edited slash command", "command", c.Name)
			report.Edited = append(report.Edited, c.Name)
		}
	}

	if !s.opts.DeleteUnused {
		return report, nil
	}
	for _, rc := range remote {
		if findLocal(local, rc.Name) != nil {
			continue
		}
		if s.opts.BuiltInHelp && strings.EqualFold(rc.Name, s.opts.HelpName) {
			continue
		}
		if err := s.wait(ctx); err != nil {
			return report, err
		}
		if err := s.remote.Delete(ctx, rc.ID); err != nil {
			return report, fmt.Errorf("delete slash command %s: %w", rc.Name, err)
		}
		s.log.Warn("Deleted slash command", "command", rc.Name)
		report.Deleted = append(report.Deleted, rc.Name)
	}
	return report, nil
}

func (s *Syncer) wait(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("slash sync pacing: %w", err)
	}
	return nil
}

func findRemote(remote []*discordgo.ApplicationCommand, name string) *discordgo.ApplicationCommand {
	for _, rc := range remote {
		if strings.EqualFold(rc.Name, name) {
			return rc
		}
	}
	return nil
}

// findLocal matches slash-enabled local commands only.
func findLocal(local []*command.Command, name string) *command.Command {
	for _, c := range local {
		if c.Slash && strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}
