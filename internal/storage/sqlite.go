// Package storage persists per-admin channel settings and the audit
// trail in a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"seriesbot/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type Store struct {
	db  *sql.DB
	log logx.Logger
}

func Open(cfg Config, log logx.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("storage: sqlite path is required")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	s := &Store{db: db, log: log}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SetChannel stores (or replaces) the admin's target channel, keeping
// any configured sticker.
func (s *Store) SetChannel(ctx context.Context, adminID, channelID int64, username string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO channel_settings(admin_id, channel_id, channel_username, updated_at)
		 VALUES(?,?,?,?)
		 ON CONFLICT(admin_id) DO UPDATE SET
		   channel_id = excluded.channel_id,
		   channel_username = excluded.channel_username,
		   updated_at = excluded.updated_at`,
		adminID, channelID, nullStr(username), time.Now().Format(time.RFC3339Nano),
	)
	return err
}

// SetSticker stores the sticker sent after each published post.
// The admin must have a channel configured first.
func (s *Store) SetSticker(ctx context.Context, adminID int64, stickerID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE channel_settings SET sticker_id = ?, updated_at = ? WHERE admin_id = ?`,
		nullStr(stickerID), time.Now().Format(time.RFC3339Nano), adminID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoChannel
	}
	return nil
}

// ChannelForAdmin returns the admin's publish target, or ErrNoChannel.
func (s *Store) ChannelForAdmin(ctx context.Context, adminID int64) (ChannelSetting, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT channel_id, channel_username, sticker_id, updated_at
		 FROM channel_settings WHERE admin_id = ?`, adminID)

	var (
		cs       ChannelSetting
		username sql.NullString
		sticker  sql.NullString
		updated  string
	)
	cs.AdminID = adminID
	err := row.Scan(&cs.ChannelID, &username, &sticker, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return ChannelSetting{}, ErrNoChannel
	}
	if err != nil {
		return ChannelSetting{}, err
	}
	cs.ChannelUsername = username.String
	cs.StickerID = sticker.String
	if t, perr := time.Parse(time.RFC3339Nano, updated); perr == nil {
		cs.UpdatedAt = t
	}
	return cs, nil
}

// AppendAudit writes one audit row.
func (s *Store) AppendAudit(ctx context.Context, e AuditEntry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit(at, actor_id, actor_label, action, ok, detail)
		 VALUES(?,?,?,?,?,?)`,
		e.At.Format(time.RFC3339Nano), e.ActorID, nullStr(e.ActorLabel),
		e.Action, boolInt(e.OK), nullStr(e.Detail),
	)
	return err
}

// RecentAudit returns the newest entries, newest first.
func (s *Store) RecentAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT at, actor_id, actor_label, action, ok, detail
		 FROM audit ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuditEntry
	for rows.Next() {
		var (
			e      AuditEntry
			at     string
			label  sql.NullString
			ok     int
			detail sql.NullString
		)
		if err := rows.Scan(&at, &e.ActorID, &label, &e.Action, &ok, &detail); err != nil {
			return nil, err
		}
		if t, perr := time.Parse(time.RFC3339Nano, at); perr == nil {
			e.At = t
		}
		e.ActorLabel = label.String
		e.OK = ok != 0
		e.Detail = detail.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullStr(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func formatChatID(id int64) string { return strconv.FormatInt(id, 10) }
