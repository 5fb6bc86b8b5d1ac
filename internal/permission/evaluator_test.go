package permission

import (
	"encoding/json"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	users map[string]bool
	roles map[string]bool
	perms map[string]int64
}

func (r stubResolver) IsUser(id string) bool { return r.users[id] }
func (r stubResolver) IsRole(_ string, id string) bool { return r.roles[id] }
func (r stubResolver) MemberPermissions(m *discordgo.Member) int64 { return r.perms[m.User.ID] }

func member(id string, roles ...string) *discordgo.Member {
	return &discordgo.Member{GuildID: "g1", User: &discordgo.User{ID: id}, Roles: roles}
}

func newStub() stubResolver {
	return stubResolver{
		users: map[string]bool{"100": true, "200": true},
		roles: map[string]bool{"R1": true, "R2": true},
		perms: map[string]int64{
			"100": discordgo.PermissionKickMembers,
			"200": discordgo.PermissionAdministrator,
		},
	}
}

func TestCheckAnyOf(t *testing.T) {
	e := NewEvaluator(newStub(), nil)

	assert.True(t, e.Check(Any("100"), member("100")))
	assert.False(t, e.Check(Any("200"), member("100")))
	assert.True(t, e.Check(Any("200", "R1"), member("100", "R1")))
	assert.False(t, e.Check(Spec{}, member("100")))
}

func TestCheckAllOf(t *testing.T) {
	e := NewEvaluator(newStub(), nil)

	spec := Of(All("R1", "R2"))
	assert.False(t, e.Check(spec, member("100", "R1")))
	assert.True(t, e.Check(spec, member("100", "R1", "R2")))

	mixed := Of(Entry{Atom: "BAN_MEMBERS"}, All("KICK_MEMBERS", "R2"))
	assert.True(t, e.Check(mixed, member("100", "R2")))
	assert.False(t, e.Check(mixed, member("100")))
}

func TestCheckFlags(t *testing.T) {
	e := NewEvaluator(newStub(), nil)

	assert.True(t, e.CheckAtom("KICK_MEMBERS", member("100")))
	assert.False(t, e.CheckAtom("BAN_MEMBERS", member("100")))
	assert.True(t, e.CheckAtom("BAN_MEMBERS", member("200")), "administrator overrides")
	assert.False(t, e.CheckAtom("NOT_A_FLAG", member("200")))
}

func TestCheckAliases(t *testing.T) {
	aliases := Table{
		"mods":  Any("R1", "staff"),
		"staff": Of(All("R2", "KICK_MEMBERS")),
	}
	e := NewEvaluator(newStub(), aliases)

	assert.True(t, e.Check(Any("mods"), member("100", "R1")))
	assert.True(t, e.Check(Any("mods"), member("100", "R2")))
	assert.False(t, e.Check(Any("mods"), member("300", "R2")))
}

func TestCheckAliasCycleIsFalse(t *testing.T) {
	aliases := Table{
		"a": Any("b"),
		"b": Any("a"),
	}
	e := NewEvaluator(newStub(), aliases)

	assert.False(t, e.Check(Any("a"), member("200")))
	assert.True(t, e.Check(Any("a", "ADMINISTRATOR"), member("200")))
}

func TestCheckWithoutGuild(t *testing.T) {
	e := NewEvaluator(newStub(), nil)

	assert.False(t, e.Check(Any("100"), nil))
	assert.False(t, e.Check(Any("100"), &discordgo.Member{User: &discordgo.User{ID: "100"}}))
}

func TestDetectCycles(t *testing.T) {
	require.NoError(t, DetectCycles(Table{"a": Any("b"), "b": Any("KICK_MEMBERS")}))

	err := DetectCycles(Table{"a": Any("b"), "b": Of(All("c", "R1")), "c": Any("a")})
	require.ErrorIs(t, err, ErrCycle)
	assert.Contains(t, err.Error(), "a -> b -> c -> a")
}

func TestSpecJSON(t *testing.T) {
	var spec Spec
	require.NoError(t, json.Unmarshal([]byte(`["KICK_MEMBERS", ["R1", "R2"]]`), &spec))

	assert.Equal(t, Of(Entry{Atom: "KICK_MEMBERS"}, All("R1", "R2")), spec)
	assert.Equal(t, "KICK_MEMBERS | (R1 & R2)", spec.String())

	out, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.JSONEq(t, `["KICK_MEMBERS", ["R1", "R2"]]`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &spec))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Manage Messages", Label("MANAGE_MESSAGES"))
}
