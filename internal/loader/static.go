package loader

import (
	"context"
	"slices"
	"sync"

	"github.com/keshon/herald/internal/command"
)

// Static is a source filled at init time by compiled-in modules.
type Static struct {
	mu       sync.Mutex
	commands []command.Import
	events   []command.EventImport
}

var defaultStatic = &Static{}

// Default returns the process-wide static source.
func Default() *Static { return defaultStatic }

// RegisterCommand adds a bare command to the default source. Usually called from init().
func RegisterCommand(c *command.Command) { defaultStatic.AddCommand(c) }

// RegisterModule adds a wrapped command to the default source.
func RegisterModule(m *command.Module) { defaultStatic.AddModule(m) }

func RegisterEvent(e *command.Event) { defaultStatic.AddEvent(e) }

func RegisterEventModule(m *command.EventModule) { defaultStatic.AddEventModule(m) }

func (s *Static) AddCommand(c *command.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, command.Import{Kind: command.Bare, Bare: c, Origin: "static"})
}

func (s *Static) AddModule(m *command.Module) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, command.Import{Kind: command.Wrapped, Wrapped: m, Origin: "static"})
}

func (s *Static) AddEvent(e *command.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, command.EventImport{Kind: command.Bare, Bare: e, Origin: "static"})
}

func (s *Static) AddEventModule(m *command.EventModule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, command.EventImport{Kind: command.Wrapped, Wrapped: m, Origin: "static"})
}

func (s *Static) Commands(context.Context) ([]command.Import, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.commands), nil
}

func (s *Static) Events(context.Context) ([]command.EventImport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events), nil
}
