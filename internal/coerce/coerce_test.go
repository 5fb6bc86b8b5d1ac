package coerce

import (
	"context"
	"math"
	"testing"

	"github.com/keshon/herald/internal/command"
	"github.com/keshon/herald/internal/discord/fake"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type finder map[string]*command.Command

func (f finder) Find(name string) *command.Command { return f[name] }

func setup(t *testing.T) (*Coercer, *fake.Platform, *command.Invocation) {
	t.Helper()
	p := fake.New()
	p.AddGuild(&discordgo.Guild{ID: "1", Name: "home"})
	p.AddRole("1", &discordgo.Role{ID: "11", Name: "mods"})
	p.AddEmoji("1", &discordgo.Emoji{ID: "21", Name: "party", Animated: true})
	p.AddChannel(&discordgo.Channel{ID: "31", Name: "general", GuildID: "1"})
	p.AddMember("1", &discordgo.User{ID: "41", Username: "ana", Discriminator: "0"}, 0)
	p.AddUser(&discordgo.User{ID: "42", Username: "bo", Discriminator: "1234"})

	ping := &command.Command{Name: "ping"}
	c := New(p, finder{"ping": ping})
	inv := &command.Invocation{GuildID: "1", ChannelID: "31"}
	return c, p, inv
}

func coerce(t *testing.T, c *Coercer, typ command.ArgType, inv *command.Invocation, tokens ...string) any {
	t.Helper()
	v, err := c.Coerce(context.Background(), typ, tokens, inv)
	require.NoError(t, err)
	return v
}

func TestPrimitives(t *testing.T) {
	c, _, inv := setup(t)

	assert.Equal(t, "a", coerce(t, c, command.ArgString, inv, "a", "b"))
	assert.Nil(t, coerce(t, c, command.ArgString, inv))
	assert.Equal(t, "world foo", coerce(t, c, command.ArgMString, inv, []string{"hello", "world", "foo"}[1:]...))
	assert.Equal(t, "h", coerce(t, c, command.ArgChar, inv, "hey"))
	assert.Nil(t, coerce(t, c, command.ArgChar, inv))
}

func TestNumbers(t *testing.T) {
	c, _, inv := setup(t)

	tests := []struct {
		typ  command.ArgType
		in   string
		want float64
	}{
		{command.ArgNumber, "3.5", 3.5},
		{command.ArgFloat, "  -2e3xyz", -2000},
		{command.ArgFloat, ".5", 0.5},
		{command.ArgInt, "42", 42},
		{command.ArgInt, "12.9", 12},
		{command.ArgInt, "-7abc", -7},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ)+"/"+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, coerce(t, c, tt.typ, inv, tt.in))
		})
	}

	for _, typ := range []command.ArgType{command.ArgNumber, command.ArgInt, command.ArgFloat} {
		v := coerce(t, c, typ, inv, "abc")
		f, ok := v.(float64)
		require.True(t, ok)
		assert.True(t, math.IsNaN(f), "%s should yield NaN", typ)
	}
	assert.True(t, math.IsNaN(coerce(t, c, command.ArgInt, inv).(float64)))
}

func TestBoolean(t *testing.T) {
	c, _, inv := setup(t)

	assert.Nil(t, coerce(t, c, command.ArgBoolean, inv))
	for _, s := range []string{"false", "0", "0n", "undefined", "NaN", "", "no", "off"} {
		assert.Equal(t, false, coerce(t, c, command.ArgBoolean, inv, s), s)
	}
	for _, s := range []string{"yes", "true", "OFF", "1"} {
		assert.Equal(t, true, coerce(t, c, command.ArgBoolean, inv, s), s)
	}
}

func TestColor(t *testing.T) {
	c, _, inv := setup(t)

	assert.Equal(t, 0xed4245, coerce(t, c, command.ArgColor, inv, "RED"))
	assert.Equal(t, 0xff8800, coerce(t, c, command.ArgColor, inv, "#ff8800"))
	assert.Equal(t, 0xabc, coerce(t, c, command.ArgColor, inv, "#abc"))
	assert.Equal(t, 0xfff, coerce(t, c, command.ArgColor, inv, "#fff"))
	assert.Equal(t, 0x123, coerce(t, c, command.ArgColor, inv, "123"))

	_, err := c.Coerce(context.Background(), command.ArgColor, []string{"nope"}, inv)
	assert.ErrorIs(t, err, ErrColorConvert)
	_, err = c.Coerce(context.Background(), command.ArgColor, []string{"1000000"}, inv)
	assert.ErrorIs(t, err, ErrColorRange)
}

func TestEntities(t *testing.T) {
	c, _, inv := setup(t)

	assert.Equal(t, "home", coerce(t, c, command.ArgGuild, inv, "1").(*discordgo.Guild).Name)
	assert.Nil(t, coerce(t, c, command.ArgGuild, inv, "2"))

	for _, s := range []string{"41", "ana", "<@41>", "<@!41>"} {
		u, ok := coerce(t, c, command.ArgUser, inv, s).(*discordgo.User)
		require.True(t, ok, s)
		assert.Equal(t, "41", u.ID)
	}
	assert.Equal(t, "42", coerce(t, c, command.ArgUser, inv, "bo#1234").(*discordgo.User).ID)
	assert.Nil(t, coerce(t, c, command.ArgUser, inv, "nobody"))

	assert.Equal(t, "general", coerce(t, c, command.ArgChannel, inv, "<#31>").(*discordgo.Channel).Name)
	assert.Nil(t, coerce(t, c, command.ArgChannel, inv, "<#99>"))

	assert.Equal(t, "11", coerce(t, c, command.ArgRole, inv, "mods").(*discordgo.Role).ID)
	assert.Nil(t, coerce(t, c, command.ArgRole, &command.Invocation{}, "mods"))

	assert.Equal(t, "party", coerce(t, c, command.ArgEmoji, inv, "https://cdn.discordapp.com/emojis/21.gif").(*discordgo.Emoji).Name)
	assert.Equal(t, "21", coerce(t, c, command.ArgEmoji, inv, "party").(*discordgo.Emoji).ID)

	assert.Equal(t, "KICK_MEMBERS", coerce(t, c, command.ArgPermission, inv, "kick_members"))
	assert.Nil(t, coerce(t, c, command.ArgPermission, inv, "fly"))

	assert.Equal(t, "ping", coerce(t, c, command.ArgCommand, inv, "ping").(*command.Command).Name)
	assert.Nil(t, coerce(t, c, command.ArgCommand, inv, "pong"))
}

func TestMember(t *testing.T) {
	c, p, inv := setup(t)

	m, ok := coerce(t, c, command.ArgMember, inv, "<@41>").(*discordgo.Member)
	require.True(t, ok)
	assert.Equal(t, "1", m.GuildID)

	_, err := c.Coerce(context.Background(), command.ArgMember, []string{"ghost"}, inv)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	absent, err := c.Coerce(context.Background(), command.ArgMember, nil, inv)
	require.NoError(t, err)
	assert.Nil(t, absent)

	p.FailOn = "member"
	_, err = c.Coerce(context.Background(), command.ArgMember, []string{"41"}, inv)
	assert.ErrorIs(t, err, fake.ErrInjected)
}

func TestMessage(t *testing.T) {
	c, p, inv := setup(t)
	cached := &discordgo.Message{ID: "51", ChannelID: "31", GuildID: "1"}
	stored := &discordgo.Message{ID: "52", ChannelID: "31", GuildID: "1"}
	p.CacheMessage(cached)
	p.StoreMessage(stored)

	assert.Same(t, cached, coerce(t, c, command.ArgMessage, inv, "https://discord.com/channels/1/31/51"))
	assert.Same(t, stored, coerce(t, c, command.ArgMessage, inv, "52"))
	assert.Nil(t, coerce(t, c, command.ArgMessage, inv, "53"))
	assert.Nil(t, coerce(t, c, command.ArgMessage, inv, "not-an-id"))
}

func TestInvite(t *testing.T) {
	c, p, inv := setup(t)
	p.StoreInvite(&discordgo.Invite{Code: "abc"})

	assert.Equal(t, "abc", coerce(t, c, command.ArgInvite, inv, "https://discord.gg/abc").(*discordgo.Invite).Code)
	assert.Nil(t, coerce(t, c, command.ArgInvite, inv, "zzz"))
}

func TestTime(t *testing.T) {
	c, _, inv := setup(t)

	assert.Equal(t, int64(90_000), coerce(t, c, command.ArgTime, inv, "1m30s"))
	assert.Equal(t, int64(86_400_000), coerce(t, c, command.ArgTime, inv, "1d"))

	_, err := c.Coerce(context.Background(), command.ArgTime, []string{"soon"}, inv)
	assert.Error(t, err)
}

func TestUnknownType(t *testing.T) {
	c, _, inv := setup(t)

	_, err := c.Coerce(context.Background(), command.ArgType("vector"), []string{"x"}, inv)
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.False(t, c.Supports("vector"))
	assert.True(t, c.Supports(command.ArgMString))
}
