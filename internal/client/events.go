package client

import (
	"context"
	"fmt"
	"time"

	"github.com/keshon/herald/internal/command"
	"github.com/keshon/herald/internal/loader"
	"github.com/keshon/herald/pkg/util"

	"github.com/robfig/cron/v3"
)

// Emit runs every handler bound to the event name. Handlers run concurrently
// and the first error is returned.
func (c *Client) Emit(ctx context.Context, name string, payload any) error {
	handlers := c.registry.Load().Events(name)
	return util.Parallel(ctx, handlers, c.opts.EventWorkers, func(ctx context.Context, e *command.Event) error {
		if err := e.Run(ctx, c, payload); err != nil {
			return fmt.Errorf("event %s: %w", name, err)
		}
		return nil
	})
}

// ScheduleReloads reloads on a cron schedule until ctx is done.
func (c *Client) ScheduleReloads(ctx context.Context, spec string) (*cron.Cron, error) {
	sched := cron.New()
	_, err := sched.AddFunc(spec, func() { c.reloadLogged(ctx, "schedule") })
	if err != nil {
		return nil, fmt.Errorf("reload schedule %q: %w", spec, err)
	}
	sched.Start()
	go func() {
		<-ctx.Done()
		<-sched.Stop().Done()
	}()
	c.log.Info("Scheduled reloads", "schedule", spec)
	return sched, nil
}

// WatchModules reloads when the module directories change. It blocks until
// ctx is done.
func (c *Client) WatchModules(ctx context.Context, debounce time.Duration, dirs ...string) error {
	return loader.Watch(ctx, c.log, debounce, func(ctx context.Context) {
		c.reloadLogged(ctx, "watch")
	}, dirs...)
}

func (c *Client) reloadLogged(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	if _, err := c.Reload(ctx); err != nil {
		c.log.Error("Reload failed", "trigger", trigger, "err", err)
	}
}
