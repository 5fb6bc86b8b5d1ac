// Package dispatch coerces command arguments and runs handlers, and routes
// text messages and interactions to commands through a middleware chain.
package dispatch

import (
	"context"
	"fmt"

	"github.com/keshon/herald/internal/command"

	"golang.org/x/sync/errgroup"
)

// Coercer converts the tokens of one argument.
type Coercer interface {
	Coerce(ctx context.Context, t command.ArgType, tokens []string, inv *command.Invocation) (any, error)
}

// CoerceArgs coerces every declared argument concurrently. Argument i sees
// inv.ArgTokens(i): its token and the supplied ones after it. The first failure cancels the batch and no values are returned.
func CoerceArgs(ctx context.Context, c Coercer, args []command.Argument, inv *command.Invocation) ([]any, error) {
	values := make([]any, len(args))
	g, gctx := errgroup.WithContext(ctx)
	for i, arg := range args {
		tokens := inv.ArgTokens(i)
		g.Go(func() error {
			v, err := c.Coerce(gctx, arg.Type, tokens, inv)
			if err != nil {
				return fmt.Errorf("argument %s: %w", arg.Name, err)
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}

// RunCommand coerces the arguments of cmd and calls its handler. It does not
// check permissions; callers gate the invocation first.
func RunCommand(ctx context.Context, c Coercer, cmd *command.Command, inv *command.Invocation, rt command.Runtime) error {
	if cmd.Run == nil {
		return fmt.Errorf("command %s has no handler", cmd.Name)
	}
	values, err := CoerceArgs(ctx, c, cmd.Args, inv)
	if err != nil {
		return fmt.Errorf("command %s: %w", cmd.Name, err)
	}
	return cmd.Run(ctx, inv, rt, values)
}
