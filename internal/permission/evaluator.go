package permission

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
)

var ErrCycle = errors.New("permission alias cycle")

// Resolver answers the platform questions an atom needs.
type Resolver interface {
	// IsUser reports whether id names a known user.
	IsUser(id string) bool
	// IsRole reports whether id names a role of the guild.
	IsRole(guildID, id string) bool
	// MemberPermissions returns the effective guild permission bits of m.
	MemberPermissions(m *discordgo.Member) int64
}

// Evaluator checks permission specs against guild members.
type Evaluator struct {
	resolver Resolver
	aliases  Table
}

func NewEvaluator(r Resolver, aliases Table) *Evaluator {
	if aliases == nil {
		aliases = Table{}
	}
	return &Evaluator{resolver: r, aliases: aliases}
}

// Aliases returns the alias table in use.
func (e *Evaluator) Aliases() Table { return e.aliases }

// Check reports whether m satisfies any entry of spec. A nil member or one
// without a guild never satisfies anything.
func (e *Evaluator) Check(spec Spec, m *discordgo.Member) bool {
	if !inGuild(m) {
		return false
	}
	return e.check(spec, m, map[string]bool{})
}

// CheckAtom evaluates a single atom.
func (e *Evaluator) CheckAtom(atom string, m *discordgo.Member) bool {
	if !inGuild(m) {
		return false
	}
	return e.atom(atom, m, map[string]bool{})
}

func inGuild(m *discordgo.Member) bool {
	return m != nil && m.User != nil && m.GuildID != ""
}

func (e *Evaluator) check(spec Spec, m *discordgo.Member, visiting map[string]bool) bool {
	for _, entry := range spec {
		if !entry.IsGroup() {
			if e.atom(entry.Atom, m, visiting) {
				return true
			}
			continue
		}
		all := true
		for _, a := range entry.AllOf {
			if !e.atom(a, m, visiting) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func (e *Evaluator) atom(atom string, m *discordgo.Member, visiting map[string]bool) bool {
	if atom == "" {
		return false
	}
	if e.resolver != nil {
		if e.resolver.IsUser(atom) {
			return m.User.ID == atom
		}
		if e.resolver.IsRole(m.GuildID, atom) {
			return slices.Contains(m.Roles, atom)
		}
	}
	if spec, ok := e.aliases[atom]; ok {
		// an alias already on the current path can never resolve
		if visiting[atom] {
			return false
		}
		visiting[atom] = true
		defer delete(visiting, atom)
		return e.check(spec, m, visiting)
	}
	bits, ok := Bits(atom)
	if !ok || e.resolver == nil {
		return false
	}
	perms := e.resolver.MemberPermissions(m)
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return perms&bits == bits
}

// DetectCycles returns an ErrCycle-wrapped error naming the first alias
// cycle found in the table, or nil.
func DetectCycles(t Table) error {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)

	const (
		unseen = iota
		active
		done
	)
	state := make(map[string]int, len(t))
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case active:
			start := slices.Index(path, name)
			cycle := append(slices.Clone(path[start:]), name)
			return fmt.Errorf("%w: %s", ErrCycle, strings.Join(cycle, " -> "))
		case done:
			return nil
		}
		state[name] = active
		path = append(path, name)
		for _, a := range t[name].Atoms() {
			if _, isAlias := t[a]; !isAlias {
				continue
			}
			if err := visit(a); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[name] = done
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}
