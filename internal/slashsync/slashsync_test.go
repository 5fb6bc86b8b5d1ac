package slashsync

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/keshon/herald/internal/command"
	"github.com/keshon/herald/internal/discord/fake"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func ping() *command.Command {
	return &command.Command{
		Name:        "ping",
		Description: "Check latency",
		Slash:       true,
		SlashOptions: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionBoolean, Name: "verbose", Description: "More detail"},
		},
	}
}

func TestCreateThenMatch(t *testing.T) {
	p := fake.New()
	s := New(p, Options{}, discard)

	report, err := s.Sync(context.Background(), []*command.Command{ping()})
	require.NoError(t, err)
	assert.Equal(t, []string{"ping"}, report.Created)
	calls := p.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "create", calls[0].Op)
	assert.Equal(t, "ping", calls[0].Name)

	remote, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, remote, 1)
	assert.Equal(t, "Check latency", remote[0].Description)
	assert.Equal(t, discordgo.ChatApplicationCommand, remote[0].Type)
	require.NotNil(t, remote[0].DefaultPermission)
	assert.True(t, *remote[0].DefaultPermission)
	assert.True(t, OptionsEqual(ping().SlashOptions, remote[0].Options))

	p.ResetCalls()
	report, err = s.Sync(context.Background(), []*command.Command{ping()})
	require.NoError(t, err)
	assert.Zero(t, report.Calls())
	assert.Empty(t, p.Calls())
}

func TestIdempotentWithDeletes(t *testing.T) {
	p := fake.New()
	p.SeedCommands(&discordgo.ApplicationCommand{Name: "stale", Description: "old"})
	s := New(p, Options{DeleteUnused: true}, discard)
	local := []*command.Command{ping(), {Name: "text", Description: "not slash"}}

	first, err := s.Sync(context.Background(), local)
	require.NoError(t, err)
	assert.Equal(t, []string{"ping"}, first.Created)
	assert.Equal(t, []string{"stale"}, first.Deleted)

	second, err := s.Sync(context.Background(), local)
	require.NoError(t, err)
	assert.Zero(t, second.Calls())
	assert.Equal(t, []string{"ping"}, p.RemoteNames())
}

func TestNameMatchIgnoresCase(t *testing.T) {
	p := fake.New()
	def := Definition(ping())
	def.Name = "PING"
	p.SeedCommands(def)

	report, err := New(p, Options{DeleteUnused: true}, discard).Sync(context.Background(), []*command.Command{ping()})
	require.NoError(t, err)
	assert.Zero(t, report.Calls())
}

func TestEditOnDifference(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*discordgo.ApplicationCommand)
	}{
		{"description", func(d *discordgo.ApplicationCommand) { d.Description = "stale" }},
		{"option order", func(d *discordgo.ApplicationCommand) {
			d.Options = []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "extra", Description: "x"},
				d.Options[0],
			}
		}},
		{"option required", func(d *discordgo.ApplicationCommand) {
			o := *d.Options[0]
			o.Required = true
			d.Options = []*discordgo.ApplicationCommandOption{&o}
		}},
		{"no options", func(d *discordgo.ApplicationCommand) { d.Options = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fake.New()
			def := Definition(ping())
			tt.mutate(def)
			p.SeedCommands(def)

			report, err := New(p, Options{}, discard).Sync(context.Background(), []*command.Command{ping()})
			require.NoError(t, err)
			assert.Equal(t, []string{"ping"}, report.Edited)
			assert.Empty(t, report.Created)
		})
	}
}

func TestDeletionGuard(t *testing.T) {
	tests := []struct {
		name         string
		remote       string
		deleteUnused bool
		builtInHelp  bool
		wantDelete   bool
	}{
		{"unused deleted", "old", true, false, true},
		{"deletion disabled", "old", false, false, false},
		{"help kept while built in", "help", true, true, false},
		{"help deleted without built in", "help", true, false, true},
		{"other deleted while help built in", "old", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fake.New()
			p.SeedCommands(&discordgo.ApplicationCommand{Name: tt.remote, Description: "remote only"})
			s := New(p, Options{DeleteUnused: tt.deleteUnused, BuiltInHelp: tt.builtInHelp}, discard)

			report, err := s.Sync(context.Background(), nil)
			require.NoError(t, err)
			if tt.wantDelete {
				assert.Equal(t, []string{tt.remote}, report.Deleted)
				assert.Empty(t, p.RemoteNames())
			} else {
				assert.Empty(t, report.Deleted)
				assert.Equal(t, []string{tt.remote}, p.RemoteNames())
			}
		})
	}
}

func TestNonSlashLocalDoesNotProtectRemote(t *testing.T) {
	p := fake.New()
	p.SeedCommands(&discordgo.ApplicationCommand{Name: "ping"})
	local := []*command.Command{{Name: "ping"}}

	report, err := New(p, Options{DeleteUnused: true}, discard).Sync(context.Background(), local)
	require.NoError(t, err)
	assert.Equal(t, []string{"ping"}, report.Deleted)
}

func TestFirstErrorAborts(t *testing.T) {
	p := fake.New()
	p.FailOn = "create"
	local := []*command.Command{ping(), {Name: "pong", Slash: true}}

	report, err := New(p, Options{}, discard).Sync(context.Background(), local)
	require.ErrorIs(t, err, fake.ErrInjected)
	assert.Contains(t, err.Error(), "create slash command ping")
	assert.Zero(t, report.Calls())

	p.FailOn = "fetch"
	_, err = New(p, Options{}, discard).Sync(context.Background(), local)
	assert.ErrorIs(t, err, fake.ErrInjected)
}

func TestChoicesCompareByValue(t *testing.T) {
	a := []*discordgo.ApplicationCommandOption{{Name: "n", Choices: []*discordgo.ApplicationCommandOptionChoice{{Name: "one", Value: 1}}}}
	b := []*discordgo.ApplicationCommandOption{{Name: "n", Choices: []*discordgo.ApplicationCommandOptionChoice{{Name: "one", Value: float64(1)}}}}
	assert.True(t, OptionsEqual(a, b))
	assert.True(t, OptionsEqual(nil, []*discordgo.ApplicationCommandOption{}))
}
