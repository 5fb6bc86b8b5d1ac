package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/keshon/herald/internal/command"
	"github.com/keshon/herald/internal/permission"
)

type reloader interface {
	Reload(ctx context.Context) (string, error)
}

func Reload() *command.Command {
	return &command.Command{
		Name:        "reload",
		Description: "Reload commands and events",
		Category:    "Maintenance",
		Permissions: permission.Any("ADMINISTRATOR"),
		Run: func(ctx context.Context, inv *command.Invocation, rt command.Runtime, _ []any) error {
			r, ok := rt.(reloader)
			if !ok {
				return errors.New("runtime cannot reload")
			}
			summary, err := r.Reload(ctx)
			if err != nil {
				return rt.Reply(ctx, inv, command.Reply{Content: fmt.Sprintf("Reload failed: %v", err)})
			}
			return rt.Reply(ctx, inv, command.Reply{Content: summary})
		},
	}
}
