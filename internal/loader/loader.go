// Package loader discovers command and event modules and normalizes them
// into descriptors.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/keshon/herald/internal/command"
)

var ErrInvalidModule = errors.New("invalid module")

// Source yields command and event modules.
type Source interface {
	Commands(ctx context.Context) ([]command.Import, error)
	Events(ctx context.Context) ([]command.EventImport, error)
}

type Loader struct {
	sources []Source
	log     *slog.Logger
}

func New(logger *slog.Logger, sources ...Source) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{sources: sources, log: logger}
}

// Load collects every module from every source, in source order.
func (l *Loader) Load(ctx context.Context) ([]*command.Command, []*command.Event, error) {
	var (
		cmds   []*command.Command
		events []*command.Event
	)
	for _, src := range l.sources {
		imports, err := src.Commands(ctx)
		if err != nil {
			return nil, nil, err
		}
		for _, imp := range imports {
			c, err := imp.Descriptor()
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %v", ErrInvalidModule, err)
			}
			if err := l.validate(c, imp.Origin); err != nil {
				return nil, nil, err
			}
			cmds = append(cmds, c)
		}

		eventImports, err := src.Events(ctx)
		if err != nil {
			return nil, nil, err
		}
		for _, imp := range eventImports {
			e, err := imp.Descriptor()
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %v", ErrInvalidModule, err)
			}
			if e.Name == "" || e.Run == nil {
				return nil, nil, fmt.Errorf("%w: event from %s needs a name and a handler", ErrInvalidModule, imp.Origin)
			}
			events = append(events, e)
		}
	}
	return cmds, events, nil
}

func (l *Loader) validate(c *command.Command, origin string) error {
	if c.Name == "" {
		return fmt.Errorf("%w: command from %s has no name", ErrInvalidModule, origin)
	}
	if c.Run == nil {
		return fmt.Errorf("%w: command %s has no handler", ErrInvalidModule, c.Name)
	}
	for i, a := range c.Args {
		if !a.Type.Known() {
			return fmt.Errorf("%w: command %s argument %s has unknown type %q", ErrInvalidModule, c.Name, a.Name, a.Type)
		}
		if a.Type == command.ArgMString && i != len(c.Args)-1 {
			l.log.Warn("Multi-word argument is not last and swallows the arguments after it", "command", c.Name, "arg", a.Name)
		}
	}
	return nil
}
