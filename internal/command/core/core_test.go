package core

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/keshon/herald/internal/client"
	"github.com/keshon/herald/internal/discord/fake"
	"github.com/keshon/herald/internal/loader"
	"github.com/keshon/herald/internal/storage"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t      *testing.T
	p      *fake.Platform
	c      *client.Client
	author *discordgo.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	store, err := storage.New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	p := fake.New()
	p.AddGuild(&discordgo.Guild{ID: "1"})
	admin := p.AddMember("1", &discordgo.User{ID: "41", Username: "ana"}, discordgo.PermissionAdministrator)

	src := &loader.Static{}
	src.AddCommand(Ping())
	src.AddCommand(Prefix())
	src.AddCommand(Reload())
	src.AddCommand(CommandsLog())
	src.AddEvent(GuildCreate())

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := client.New(p, nil, loader.New(log, src), client.Options{
		Prefix:   "!",
		Prefixes: store,
		History:  store,
		Modules:  map[string]any{StorageModule: store},
		Output:   io.Discard,
	}, log)
	_, err = c.Reload(ctx)
	require.NoError(t, err)
	return &harness{t: t, p: p, c: c, author: admin.User}
}

func (h *harness) send(content string) string {
	h.t.Helper()
	before := len(h.p.Replies())
	handled, err := h.c.Router().Message(context.Background(), &discordgo.Message{
		Author: h.author, GuildID: "1", ChannelID: "31", Content: content, Member: &discordgo.Member{},
	})
	require.NoError(h.t, err)
	require.True(h.t, handled, content)
	replies := h.p.Replies()
	require.Len(h.t, replies, before+1)
	return replies[before].Reply.Content
}

func TestPing(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "🏓 Pong!", h.send("!ping"))
	assert.Equal(t, []string{"ping"}, h.p.RemoteNames())
}

func TestPrefix(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "Current prefix: `!`", h.send("!prefix"))
	assert.Equal(t, "Prefix set to `?`", h.send("!prefix ?"))
	assert.Equal(t, "?", h.c.Prefix("1"))
	assert.Equal(t, "Prefix set to `!`", h.send("?prefix reset"))
}

func TestReloadCommand(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "Reloaded 4 commands, 1 events, and 1 modules.", h.send("!reload"))
}

func TestCommandsLog(t *testing.T) {
	h := newHarness(t)
	h.send("!ping")
	out := h.send("!history")
	assert.Contains(t, out, "ana")
	assert.Contains(t, out, "ping")
}

func TestFormatHistoryNewestFirst(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	out := FormatHistory([]storage.CommandHistoryRecord{
		{Username: "ana", Command: "first", Datetime: at},
		{Username: "bo", Command: "second", Datetime: at.Add(time.Minute)},
	})
	assert.Less(t, strings.Index(out, "second"), strings.Index(out, "first"))
	assert.Contains(t, out, "2024-05-01 12:01:00")
}
