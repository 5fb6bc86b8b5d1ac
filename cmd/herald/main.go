// cmd/herald/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keshon/herald/internal/client"
	"github.com/keshon/herald/internal/command/core"
	"github.com/keshon/herald/internal/config"
	"github.com/keshon/herald/internal/discord"
	"github.com/keshon/herald/internal/loader"
	"github.com/keshon/herald/internal/logger"
	"github.com/keshon/herald/internal/storage"

	"github.com/bwmarrin/discordgo"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load config", "err", err)
		return 1
	}

	log, closer, err := logger.New(logger.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		slog.Error("Failed to create logger", "err", err)
		return 1
	}
	defer closer.Close()
	slog.SetDefault(log)
	log.Info("Starting herald...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(ctx, cfg.StorageDSN)
	if err != nil {
		log.Error("Failed to open storage", "err", err)
		return 1
	}
	defer store.Close()

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		log.Error("Failed to create session", "err", err)
		return 1
	}

	dir := loader.NewDir(cfg.CommandsDir, cfg.EventsDir, cfg.PluginExt, log)
	if err := dir.Ensure(); err != nil {
		log.Error("Failed to create module directories", "err", err)
		return 1
	}

	c := client.New(discord.NewSession(dg), dg, loader.New(log, loader.Default(), dir), client.Options{
		Prefix:                    cfg.Prefix,
		Permissions:               cfg.PermissionData,
		Help:                      cfg.BuiltInHelpCommand,
		DeleteUnusedSlashCommands: cfg.DeleteUnusedSlashCommands,
		CommandLoadedMessage:      cfg.CommandLoadedMessage,
		EventLoadedMessage:        cfg.EventLoadedMessage,
		SyncPace:                  cfg.SyncPace,
		Modules:                   map[string]any{core.StorageModule: store},
		Prefixes:                  store,
		History:                   store,
	}, log)
	if err := c.Prefixes().Restore(ctx); err != nil {
		log.Warn("Failed to restore prefixes", "err", err)
	}

	if cfg.ReloadSchedule != "" {
		if _, err := c.ScheduleReloads(ctx, cfg.ReloadSchedule); err != nil {
			log.Error("Invalid reload schedule", "err", err)
			return 1
		}
	}
	if cfg.Watch {
		go func() {
			if err := c.WatchModules(ctx, time.Second, dir.Dirs()...); err != nil {
				log.Error("Module watcher stopped", "err", err)
			}
		}()
	}

	bot := discord.NewBot(dg, c, log)
	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	code := 0
	select {
	case s := <-sig:
		log.Info("Received signal, shutting down", "signal", s.String())
	case err := <-errCh:
		if err != nil {
			log.Error("Discord bot error", "err", err)
			code = 1
		}
	}
	cancel()
	for range errCh {
	}

	log.Info("Herald exited cleanly")
	return code
}
