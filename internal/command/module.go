package command

import "fmt"

// ImportKind says how a loaded module exposed its descriptor.
type ImportKind int

const (
	// Bare modules export the descriptor itself.
	Bare ImportKind = iota
	// Wrapped modules export a Module holding the descriptor.
	Wrapped
)

func (k ImportKind) String() string {
	if k == Wrapped {
		return "wrapped"
	}
	return "bare"
}

// Module is the wrapped export shape of a command module.
type Module struct {
	Command *Command
}

// EventModule is the wrapped export shape of an event module.
type EventModule struct {
	Event *Event
}

// Import is one command module as found by a loader source.
type Import struct {
	Kind    ImportKind
	Bare    *Command
	Wrapped *Module
	// Origin names where the module came from (file path or "static").
	Origin string
}

// Descriptor unwraps the import. It fails when the variant is empty.
func (i Import) Descriptor() (*Command, error) {
	var c *Command
	switch i.Kind {
	case Bare:
		c = i.Bare
	case Wrapped:
		if i.Wrapped != nil {
			c = i.Wrapped.Command
		}
	}
	if c == nil {
		return nil, fmt.Errorf("%s command import from %s has no descriptor", i.Kind, i.Origin)
	}
	return c, nil
}

// EventImport is one event module as found by a loader source.
type EventImport struct {
	Kind    ImportKind
	Bare    *Event
	Wrapped *EventModule
	Origin  string
}

func (i EventImport) Descriptor() (*Event, error) {
	var e *Event
	switch i.Kind {
	case Bare:
		e = i.Bare
	case Wrapped:
		if i.Wrapped != nil {
			e = i.Wrapped.Event
		}
	}
	if e == nil {
		return nil, fmt.Errorf("%s event import from %s has no descriptor", i.Kind, i.Origin)
	}
	return e, nil
}
