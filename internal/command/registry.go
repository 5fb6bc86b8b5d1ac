package command

import (
	"strings"
	"sync/atomic"
)

// Snapshot is an immutable view of the loaded commands and events.
type Snapshot struct {
	commands   []*Command
	byName     map[string]*Command
	byAlias    map[string]*Command
	categories []string
	events     []*Event
	byEvent    map[string][]*Event
}

// NewSnapshot indexes cmds and events. A later command with the same name
// replaces an earlier one.
func NewSnapshot(cmds []*Command, events []*Event) *Snapshot {
	s := &Snapshot{
		byName:  make(map[string]*Command, len(cmds)),
		byAlias: make(map[string]*Command),
		byEvent: make(map[string][]*Event),
	}
	seenCategory := make(map[string]bool)
	for _, c := range cmds {
		key := strings.ToLower(c.Name)
		if prev, ok := s.byName[key]; ok {
			for _, a := range prev.Aliases {
				if s.byAlias[strings.ToLower(a)] == prev {
					delete(s.byAlias, strings.ToLower(a))
				}
			}
			for i, existing := range s.commands {
				if existing == prev {
					s.commands[i] = c
				}
			}
		} else {
			s.commands = append(s.commands, c)
		}
		s.byName[key] = c
		for _, a := range c.Aliases {
			s.byAlias[strings.ToLower(a)] = c
		}
		if !seenCategory[c.Category] {
			seenCategory[c.Category] = true
			s.categories = append(s.categories, c.Category)
		}
	}
	for _, e := range events {
		s.events = append(s.events, e)
		s.byEvent[e.Name] = append(s.byEvent[e.Name], e)
	}
	return s
}

// Find looks a command up by name, then by alias, ignoring case.
func (s *Snapshot) Find(name string) *Command {
	key := strings.ToLower(name)
	if c, ok := s.byName[key]; ok {
		return c
	}
	return s.byAlias[key]
}

// Commands returns the commands in load order.
func (s *Snapshot) Commands() []*Command { return s.commands }

// Categories returns categories in first-seen order.
func (s *Snapshot) Categories() []string { return s.categories }

// Category returns the commands whose category equals category.
func (s *Snapshot) Category(category string) []*Command {
	var out []*Command
	for _, c := range s.commands {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

// Events returns the bindings for a gateway event name.
func (s *Snapshot) Events(name string) []*Event { return s.byEvent[name] }

// AllEvents returns every event binding in load order.
func (s *Snapshot) AllEvents() []*Event { return s.events }

// Registry holds the current snapshot. Readers never see a partially built
// registry: a reload builds a new snapshot and swaps it in.
type Registry struct {
	current atomic.Pointer[Snapshot]
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.current.Store(NewSnapshot(nil, nil))
	return r
}

// Load returns the current snapshot.
func (r *Registry) Load() *Snapshot { return r.current.Load() }

// Swap installs next and returns the previous snapshot.
func (r *Registry) Swap(next *Snapshot) *Snapshot { return r.current.Swap(next) }
