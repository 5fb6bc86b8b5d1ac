package permission

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Entry is one alternative of a Spec: either a single atom or a group of
// atoms that must all hold.
type Entry struct {
	Atom  string
	AllOf []string
}

// IsGroup reports whether the entry is an all-of group.
func (e Entry) IsGroup() bool { return e.AllOf != nil }

// Spec is an any-of list of permission entries. An atom is a user ID, a role
// ID, an alias from the permission table or a permission flag name.
type Spec []Entry

// Table maps alias names to the spec they stand for.
type Table map[string]Spec

// Any builds a spec satisfied by any of the given atoms.
func Any(atoms ...string) Spec {
	spec := make(Spec, 0, len(atoms))
	for _, a := range atoms {
		spec = append(spec, Entry{Atom: a})
	}
	return spec
}

// All builds an entry satisfied only when every atom holds.
func All(atoms ...string) Entry {
	group := make([]string, len(atoms))
	copy(group, atoms)
	return Entry{AllOf: group}
}

// Of builds a spec from explicit entries.
func Of(entries ...Entry) Spec { return Spec(entries) }

// Parse converts a decoded JSON/TOML value into a Spec. A string is a single
// atom; a list may mix atoms and lists of atoms.
func Parse(v any) (Spec, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return Spec{{Atom: t}}, nil
	case []string:
		return Any(t...), nil
	case []any:
		spec := make(Spec, 0, len(t))
		for i, item := range t {
			switch it := item.(type) {
			case string:
				spec = append(spec, Entry{Atom: it})
			case []any:
				group := make([]string, 0, len(it))
				for _, a := range it {
					s, ok := a.(string)
					if !ok {
						return nil, fmt.Errorf("permission entry %d: group member %v is not a string", i, a)
					}
					group = append(group, s)
				}
				spec = append(spec, Entry{AllOf: group})
			case []string:
				spec = append(spec, All(it...))
			default:
				return nil, fmt.Errorf("permission entry %d: unsupported value %T", i, item)
			}
		}
		return spec, nil
	default:
		return nil, fmt.Errorf("unsupported permission value %T", v)
	}
}

// ParseTable converts a decoded alias table.
func ParseTable(raw map[string]any) (Table, error) {
	table := make(Table, len(raw))
	for name, v := range raw {
		spec, err := Parse(v)
		if err != nil {
			return nil, fmt.Errorf("alias %q: %w", name, err)
		}
		table[name] = spec
	}
	return table, nil
}

func (s *Spec) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	spec, err := Parse(raw)
	if err != nil {
		return err
	}
	*s = spec
	return nil
}

func (s Spec) MarshalJSON() ([]byte, error) {
	out := make([]any, 0, len(s))
	for _, e := range s {
		if e.IsGroup() {
			out = append(out, e.AllOf)
		} else {
			out = append(out, e.Atom)
		}
	}
	return json.Marshal(out)
}

// String renders the spec as "A | (B & C)".
func (s Spec) String() string {
	parts := make([]string, 0, len(s))
	for _, e := range s {
		if e.IsGroup() {
			parts = append(parts, "("+strings.Join(e.AllOf, " & ")+")")
		} else {
			parts = append(parts, e.Atom)
		}
	}
	return strings.Join(parts, " | ")
}

// Atoms returns every atom referenced by the spec, groups flattened.
func (s Spec) Atoms() []string {
	var atoms []string
	for _, e := range s {
		if e.IsGroup() {
			atoms = append(atoms, e.AllOf...)
		} else {
			atoms = append(atoms, e.Atom)
		}
	}
	return atoms
}
