// Package prefix keeps the per-guild text command prefixes.
package prefix

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/bwmarrin/discordgo"
)

var ErrUnsupportedSource = errors.New("loadPrefixes was not passed a map, pair list or record")

// Store persists prefixes.
type Store interface {
	Prefixes(ctx context.Context) (map[string]string, error)
	SetPrefix(ctx context.Context, guildID, prefix string) error
	DeletePrefix(ctx context.Context, guildID string) error
}

// Pair is one guild-or-id to prefix entry of a pair list.
type Pair struct {
	Key    any
	Prefix any
}

type Table struct {
	mu       sync.RWMutex
	def      string
	prefixes map[string]string
	store    Store
}

// NewTable returns a table falling back to def. store may be nil.
func NewTable(def string, store Store) *Table {
	return &Table{def: def, prefixes: make(map[string]string), store: store}
}

func (t *Table) Default() string { return t.def }

// Prefix returns the guild prefix, or the default when the guild has none.
func (t *Table) Prefix(guildID string) string {
	if guildID == "" {
		return t.def
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if p := t.prefixes[guildID]; p != "" {
		return p
	}
	return t.def
}

// Set changes a guild prefix and persists it. An empty prefix resets the
// guild to the default.
func (t *Table) Set(ctx context.Context, guildID, prefix string) error {
	if t.store != nil {
		var err error
		if prefix == "" {
			err = t.store.DeletePrefix(ctx, guildID)
		} else {
			err = t.store.SetPrefix(ctx, guildID, prefix)
		}
		if err != nil {
			return err
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if prefix == "" {
		delete(t.prefixes, guildID)
	} else {
		t.prefixes[guildID] = prefix
	}
	return nil
}

// Restore merges the persisted prefixes into the table.
func (t *Table) Restore(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	stored, err := t.store.Prefixes(ctx)
	if err != nil {
		return fmt.Errorf("restore prefixes: %w", err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	maps.Copy(t.prefixes, stored)
	return nil
}

// All returns a copy of the per-guild entries.
func (t *Table) All() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.prefixes)
}

// Load merges guild-or-id to prefix entries from each source in order.
// Accepted sources are maps keyed by string, *discordgo.Guild or any, pair
// lists and plain string records. Entries whose key is not a guild or string,
// or whose value is not a string, are skipped. An unsupported source stops
// the load with ErrUnsupportedSource; earlier sources stay merged.
func (t *Table) Load(sources ...any) (map[string]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, src := range sources {
		if err := t.load(src); err != nil {
			return maps.Clone(t.prefixes), fmt.Errorf("source %d (%T): %w", i, src, err)
		}
	}
	return maps.Clone(t.prefixes), nil
}

func (t *Table) load(src any) error {
	switch s := src.(type) {
	case map[string]string:
		for k, v := range s {
			t.put(k, v)
		}
	case map[*discordgo.Guild]string:
		for k, v := range s {
			t.put(k, v)
		}
	case map[any]any:
		for k, v := range s {
			t.put(k, v)
		}
	case map[any]string:
		for k, v := range s {
			t.put(k, v)
		}
	case map[string]any:
		for k, v := range s {
			t.put(k, v)
		}
	case []Pair:
		for _, p := range s {
			t.put(p.Key, p.Prefix)
		}
	case [][2]string:
		for _, p := range s {
			t.put(p[0], p[1])
		}
	case [][2]any:
		for _, p := range s {
			t.put(p[0], p[1])
		}
	case [][]any:
		for _, p := range s {
			if len(p) == 2 {
				t.put(p[0], p[1])
			}
		}
	default:
		return ErrUnsupportedSource
	}
	return nil
}

func (t *Table) put(key, value any) {
	prefix, ok := value.(string)
	if !ok {
		return
	}
	switch k := key.(type) {
	case string:
		t.prefixes[k] = prefix
	case *discordgo.Guild:
		if k != nil {
			t.prefixes[k.ID] = prefix
		}
	}
}
