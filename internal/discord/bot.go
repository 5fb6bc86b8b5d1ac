package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/keshon/herald/internal/client"

	"github.com/bwmarrin/discordgo"
)

// Bot connects a client to the gateway.
type Bot struct {
	dg     *discordgo.Session
	client *client.Client
	log    *slog.Logger

	readyOnce sync.Once
}

func NewBot(dg *discordgo.Session, c *client.Client, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{dg: dg, client: c, log: logger}
}

// Run opens the gateway and blocks until ctx is done. The first Ready event
// triggers a reload.
func (b *Bot) Run(ctx context.Context) error {
	b.dg.Identify.Intents = discordgo.IntentsAllWithoutPrivileged |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	b.dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) { b.onReady(ctx, r) })
	b.dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) { b.onMessageCreate(ctx, m) })
	b.dg.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) { b.onInteractionCreate(ctx, i) })
	b.dg.AddHandler(func(s *discordgo.Session, e *discordgo.Event) { b.onEvent(ctx, e) })

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.log.Info("Shutdown signal received, closing gateway")
	return nil
}

func (b *Bot) onReady(ctx context.Context, r *discordgo.Ready) {
	b.readyOnce.Do(func() {
		b.log.Info("Bot is online", "user", r.User.String(), "guilds", len(r.Guilds))
		if _, err := b.client.Reload(ctx); err != nil {
			b.log.Error("Initial reload failed", "err", err)
		}
	})
}

func (b *Bot) onMessageCreate(ctx context.Context, m *discordgo.MessageCreate) {
	if _, err := b.client.Router().Message(ctx, m.Message); err != nil {
		b.log.Error("Error running command", "channel", m.ChannelID, "err", err)
	}
}

func (b *Bot) onInteractionCreate(ctx context.Context, i *discordgo.InteractionCreate) {
	handled, err := b.client.Router().Interaction(ctx, i.Interaction)
	if err != nil {
		b.log.Error("Error running slash command", "err", err)
		return
	}
	if !handled && i.Type == discordgo.InteractionApplicationCommand {
		b.log.Warn("Unknown command", "name", i.ApplicationCommandData().Name)
	}
}

// onEvent forwards every gateway dispatch to the bound event modules.
func (b *Bot) onEvent(ctx context.Context, e *discordgo.Event) {
	if e.Type == "" {
		return
	}
	payload := e.Struct
	if payload == nil {
		payload = e.RawData
	}
	if err := b.client.Emit(ctx, e.Type, payload); err != nil {
		b.log.Error("Event handler failed", "event", e.Type, "err", err)
	}
}
