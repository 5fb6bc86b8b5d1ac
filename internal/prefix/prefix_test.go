package prefix

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore map[string]string

func (m memStore) Prefixes(context.Context) (map[string]string, error) { return m, nil }

func (m memStore) SetPrefix(_ context.Context, guildID, prefix string) error {
	m[guildID] = prefix
	return nil
}

func (m memStore) DeletePrefix(_ context.Context, guildID string) error {
	delete(m, guildID)
	return nil
}

func TestPrefixFallback(t *testing.T) {
	tbl := NewTable("!", nil)
	_, err := tbl.Load(map[string]string{"g1": "?"})
	require.NoError(t, err)

	assert.Equal(t, "?", tbl.Prefix("g1"))
	assert.Equal(t, "!", tbl.Prefix("g2"))
	assert.Equal(t, "!", tbl.Prefix(""))
}

func TestLoadSources(t *testing.T) {
	tbl := NewTable("!", nil)
	guild := &discordgo.Guild{ID: "g3"}

	got, err := tbl.Load(
		map[*discordgo.Guild]string{guild: "$"},
		[]Pair{{Key: "g4", Prefix: "%"}, {Key: 12, Prefix: "bad key"}, {Key: "g5", Prefix: 7}},
		[][2]any{{"g6", "^"}, {guild, "&"}},
		map[string]any{"g7": "*", "g8": false},
		map[any]any{"g9": "~", 3.5: "x"},
		[][]any{{"g10", "+"}, {"g11"}},
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"g3":  "&",
		"g4":  "%",
		"g6":  "^",
		"g7":  "*",
		"g9":  "~",
		"g10": "+",
	}, got)
}

func TestLoadUnsupported(t *testing.T) {
	tbl := NewTable("!", nil)

	_, err := tbl.Load(map[string]string{"g1": "?"}, 42)
	require.ErrorIs(t, err, ErrUnsupportedSource)
	assert.Equal(t, "?", tbl.Prefix("g1"), "earlier sources stay merged")
}

func TestSetPersists(t *testing.T) {
	ctx := context.Background()
	store := memStore{"g1": ">"}
	tbl := NewTable("!", store)
	require.NoError(t, tbl.Restore(ctx))
	assert.Equal(t, ">", tbl.Prefix("g1"))

	require.NoError(t, tbl.Set(ctx, "g2", "."))
	assert.Equal(t, ".", store["g2"])

	require.NoError(t, tbl.Set(ctx, "g1", ""))
	assert.Equal(t, "!", tbl.Prefix("g1"))
	assert.NotContains(t, store, "g1")
}
