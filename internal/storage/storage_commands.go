package storage

import (
	"context"
	"fmt"
	"time"
)

type CommandHistoryRecord struct {
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Param     string    `json:"param"`
	Datetime  time.Time `json:"datetime"`
}

// AppendCommandToHistory appends a record and keeps only the newest
// commandHistoryLimit records of the guild.
func (s *Storage) AppendCommandToHistory(ctx context.Context, guildID string, rec CommandHistoryRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.rebind(
		`INSERT INTO command_history (guild_id, channel_id, user_id, username, command, param, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		guildID, rec.ChannelID, rec.UserID, rec.Username, rec.Command, rec.Param, rec.Datetime.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	_, err = tx.ExecContext(ctx, s.rebind(
		`DELETE FROM command_history WHERE guild_id = ? AND id NOT IN (
			SELECT id FROM command_history WHERE guild_id = ? ORDER BY id DESC LIMIT ?
		)`),
		guildID, guildID, commandHistoryLimit)
	if err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return tx.Commit()
}

// FetchCommandHistory returns the guild history, oldest first.
func (s *Storage) FetchCommandHistory(ctx context.Context, guildID string) ([]CommandHistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT channel_id, user_id, username, command, param, created_at
		FROM command_history WHERE guild_id = ? ORDER BY id`), guildID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []CommandHistoryRecord
	for rows.Next() {
		var (
			rec CommandHistoryRecord
			ms  int64
		)
		if err := rows.Scan(&rec.ChannelID, &rec.UserID, &rec.Username, &rec.Command, &rec.Param, &ms); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.Datetime = time.UnixMilli(ms)
		out = append(out, rec)
	}
	return out, rows.Err()
}
