package storage

import (
	"context"
	"fmt"
)

// Prefixes returns every stored guild prefix.
func (s *Storage) Prefixes(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT guild_id, prefix FROM prefixes")
	if err != nil {
		return nil, fmt.Errorf("query prefixes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var guildID, prefix string
		if err := rows.Scan(&guildID, &prefix); err != nil {
			return nil, fmt.Errorf("scan prefix: %w", err)
		}
		out[guildID] = prefix
	}
	return out, rows.Err()
}

func (s *Storage) SetPrefix(ctx context.Context, guildID, prefix string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO prefixes (guild_id, prefix) VALUES (?, ?)
		ON CONFLICT (guild_id) DO UPDATE SET prefix = excluded.prefix`),
		guildID, prefix)
	if err != nil {
		return fmt.Errorf("set prefix for %s: %w", guildID, err)
	}
	return nil
}

func (s *Storage) DeletePrefix(ctx context.Context, guildID string) error {
	if _, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM prefixes WHERE guild_id = ?"), guildID); err != nil {
		return fmt.Errorf("delete prefix for %s: %w", guildID, err)
	}
	return nil
}
