package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"plugin"
	"sort"

	"github.com/keshon/herald/internal/command"
)

// Symbols is the lookup surface of an opened module file.
type Symbols interface {
	Lookup(name string) (plugin.Symbol, error)
}

// Dir loads Go plugin modules from a commands and an events directory. Each
// directory may hold module files directly or one level of subfolders.
//
// A command module exports either "Command" (*command.Command) or "Module"
// (*command.Module); an event module exports "Event" or "EventModule".
type Dir struct {
	CommandsDir string
	EventsDir   string
	Ext         string

	// Open opens a module file; plugin.Open by default.
	Open func(path string) (Symbols, error)

	log *slog.Logger
}

func NewDir(commandsDir, eventsDir, ext string, logger *slog.Logger) *Dir {
	if ext == "" {
		ext = ".so"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dir{
		CommandsDir: commandsDir,
		EventsDir:   eventsDir,
		Ext:         ext,
		Open: func(path string) (Symbols, error) {
			return plugin.Open(path)
		},
		log: logger,
	}
}

// Ensure creates missing module directories.
func (d *Dir) Ensure() error {
	for kind, dir := range map[string]string{"commands": d.CommandsDir, "events": d.EventsDir} {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return err
		}
		d.log.Warn("Directory didn't exist, creating it", "kind", kind, "path", dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s directory: %w", kind, err)
		}
	}
	return nil
}

// Dirs returns the directories to watch: each root and its subfolders.
func (d *Dir) Dirs() []string {
	var out []string
	for _, root := range []string{d.CommandsDir, d.EventsDir} {
		if root == "" {
			continue
		}
		out = append(out, root)
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				out = append(out, filepath.Join(root, e.Name()))
			}
		}
	}
	return out
}

func (d *Dir) Commands(ctx context.Context) ([]command.Import, error) {
	files, err := scan(d.CommandsDir, d.Ext)
	if err != nil {
		return nil, err
	}
	var out []command.Import
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		syms, err := d.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open command module %s: %w", path, err)
		}
		imp, err := commandImport(syms, path)
		if err != nil {
			return nil, err
		}
		d.log.Debug("Command module loaded", "path", path, "kind", imp.Kind)
		out = append(out, imp)
	}
	return out, nil
}

func (d *Dir) Events(ctx context.Context) ([]command.EventImport, error) {
	files, err := scan(d.EventsDir, d.Ext)
	if err != nil {
		return nil, err
	}
	var out []command.EventImport
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		syms, err := d.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open event module %s: %w", path, err)
		}
		imp, err := eventImport(syms, path)
		if err != nil {
			return nil, err
		}
		d.log.Debug("Event module loaded", "path", path, "kind", imp.Kind)
		out = append(out, imp)
	}
	return out, nil
}

func commandImport(syms Symbols, path string) (command.Import, error) {
	if sym, err := syms.Lookup("Command"); err == nil {
		switch v := sym.(type) {
		case *command.Command:
			return command.Import{Kind: command.Bare, Bare: v, Origin: path}, nil
		case **command.Command:
			return command.Import{Kind: command.Bare, Bare: *v, Origin: path}, nil
		}
		return command.Import{}, fmt.Errorf("%w: %s: Command is %T", ErrInvalidModule, path, sym)
	}
	if sym, err := syms.Lookup("Module"); err == nil {
		switch v := sym.(type) {
		case *command.Module:
			return command.Import{Kind: command.Wrapped, Wrapped: v, Origin: path}, nil
		case **command.Module:
			return command.Import{Kind: command.Wrapped, Wrapped: *v, Origin: path}, nil
		}
		return command.Import{}, fmt.Errorf("%w: %s: Module is %T", ErrInvalidModule, path, sym)
	}
	return command.Import{}, fmt.Errorf("%w: %s exports neither Command nor Module", ErrInvalidModule, path)
}

func eventImport(syms Symbols, path string) (command.EventImport, error) {
	if sym, err := syms.Lookup("Event"); err == nil {
		switch v := sym.(type) {
		case *command.Event:
			return command.EventImport{Kind: command.Bare, Bare: v, Origin: path}, nil
		case **command.Event:
			return command.EventImport{Kind: command.Bare, Bare: *v, Origin: path}, nil
		}
		return command.EventImport{}, fmt.Errorf("%w: %s: Event is %T", ErrInvalidModule, path, sym)
	}
	if sym, err := syms.Lookup("EventModule"); err == nil {
		switch v := sym.(type) {
		case *command.EventModule:
			return command.EventImport{Kind: command.Wrapped, Wrapped: v, Origin: path}, nil
		case **command.EventModule:
			return command.EventImport{Kind: command.Wrapped, Wrapped: *v, Origin: path}, nil
		}
		return command.EventImport{}, fmt.Errorf("%w: %s: EventModule is %T", ErrInvalidModule, path, sym)
	}
	return command.EventImport{}, fmt.Errorf("%w: %s exports neither Event nor EventModule", ErrInvalidModule, path)
}

// scan lists module files in root and in its direct subfolders, sorted.
// Deeper folders are ignored. A missing root yields nothing.
func scan(root, ext string) ([]string, error) {
	if root == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	var files []string
	for _, e := range entries {
		path := filepath.Join(root, e.Name())
		if !e.IsDir() {
			if filepath.Ext(e.Name()) == ext {
				files = append(files, path)
			}
			continue
		}
		sub, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for _, s := range sub {
			if !s.IsDir() && filepath.Ext(s.Name()) == ext {
				files = append(files, filepath.Join(path, s.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
