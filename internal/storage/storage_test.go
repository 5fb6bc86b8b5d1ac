package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPrefixes(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	require.NoError(t, s.SetPrefix(ctx, "g1", "!"))
	require.NoError(t, s.SetPrefix(ctx, "g2", "?"))
	require.NoError(t, s.SetPrefix(ctx, "g1", ">>"))

	got, err := s.Prefixes(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"g1": ">>", "g2": "?"}, got)

	require.NoError(t, s.DeletePrefix(ctx, "g2"))
	got, err = s.Prefixes(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"g1": ">>"}, got)
}

func TestCommandHistoryIsCapped(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	now := time.UnixMilli(time.Now().UnixMilli())
	for i := 0; i < commandHistoryLimit+5; i++ {
		require.NoError(t, s.AppendCommandToHistory(ctx, "g1", CommandHistoryRecord{
			ChannelID: "c1",
			UserID:    "u1",
			Username:  "ana",
			Command:   fmt.Sprintf("cmd%d", i),
			Datetime:  now,
		}))
	}
	require.NoError(t, s.AppendCommandToHistory(ctx, "g2", CommandHistoryRecord{Command: "other"}))

	history, err := s.FetchCommandHistory(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, history, commandHistoryLimit)
	assert.Equal(t, "cmd5", history[0].Command)
	assert.Equal(t, fmt.Sprintf("cmd%d", commandHistoryLimit+4), history[len(history)-1].Command)
	assert.True(t, now.Equal(history[0].Datetime))

	other, err := s.FetchCommandHistory(ctx, "g2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestRebind(t *testing.T) {
	s := &Storage{postgres: true}
	assert.Equal(t, "SELECT $1, $2", s.rebind("SELECT ?, ?"))
	assert.Equal(t, "SELECT ?", (&Storage{}).rebind("SELECT ?"))
}
