package help

import (
	"context"
	"log/slog"
	"testing"

	"github.com/keshon/herald/internal/command"
	"github.com/keshon/herald/internal/permission"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRuntime struct {
	snap    *command.Snapshot
	replies []command.Reply
}

func (r *stubRuntime) Session() *discordgo.Session { return nil }
func (r *stubRuntime) Logger() *slog.Logger        { return slog.Default() }
func (r *stubRuntime) Prefix(string) string        { return "!" }
func (r *stubRuntime) Module(string) any           { return nil }
func (r *stubRuntime) Categories() []string        { return r.snap.Categories() }

func (r *stubRuntime) Reply(_ context.Context, _ *command.Invocation, rep command.Reply) error {
	r.replies = append(r.replies, rep)
	return nil
}

func (r *stubRuntime) CheckPermissions(spec permission.Spec, _ *discordgo.Member) bool {
	return false
}

func (r *stubRuntime) Command(name string) *command.Command { return r.snap.Find(name) }

func (r *stubRuntime) CommandUsage(c *command.Command, _ string) string { return "!" + c.Name }

func (r *stubRuntime) CommandsFromCategory(cat string) []*command.Command {
	return r.snap.Category(cat)
}

func TestInject(t *testing.T) {
	h := Command(Style{})
	cmds := []*command.Command{{Name: "ping"}}

	out, err := Inject(cmds, h)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Len(t, cmds, 1)

	_, err = Inject([]*command.Command{{Name: "HELP"}}, h)
	assert.ErrorIs(t, err, ErrNameCollision)
	_, err = Inject([]*command.Command{{Name: "info", Aliases: []string{"Help"}}}, h)
	assert.ErrorIs(t, err, ErrNameCollision)
}

func TestOverviewHidesForbidden(t *testing.T) {
	h := Command(Style{Title: "Herald", Color: "BLURPLE", Footer: "bye"})
	rt := &stubRuntime{snap: command.NewSnapshot([]*command.Command{
		{Name: "ping", Description: "Pong", Category: "util"},
		{Name: "ban", Description: "Ban", Category: "mod", Permissions: permission.Any("BAN_MEMBERS")},
		h,
	}, nil)}

	require.NoError(t, h.Run(context.Background(), &command.Invocation{}, rt, []any{nil}))
	require.Len(t, rt.replies, 1)
	embed := rt.replies[0].Embed
	assert.Equal(t, "Herald", embed.Title)
	assert.Equal(t, 0x5865f2, embed.Color)
	assert.Equal(t, "bye", embed.Footer.Text)
	assert.Contains(t, embed.Description, "`ping` - Pong")
	assert.NotContains(t, embed.Description, "ban")
	assert.NotContains(t, embed.Description, "**mod**")
}

func TestDescribeCommand(t *testing.T) {
	h := Command(Style{})
	kick := &command.Command{
		Name:        "kick",
		Description: "Kick someone",
		Aliases:     []string{"boot"},
		Args: []command.Argument{
			{Name: "who", Type: command.ArgMember},
			{Name: "reason", Type: command.ArgMString, Required: command.Optional()},
		},
	}
	rt := &stubRuntime{snap: command.NewSnapshot([]*command.Command{kick}, nil)}

	require.NoError(t, h.Run(context.Background(), &command.Invocation{}, rt, []any{kick}))
	desc := rt.replies[0].Embed.Description
	assert.Contains(t, desc, "Usage: `!kick`")
	assert.Contains(t, desc, "Aliases: boot")
	assert.Contains(t, desc, "`who` (server member)")
	assert.Contains(t, desc, "`reason` (string, optional)")
}
