package data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rovi1013/coap-telegram-gateway/internal/biz/domain"
	"github.com/rovi1013/coap-telegram-gateway/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// archiveRepo logs processed inbound updates to SQLite
type archiveRepo struct {
	db *sql.DB
}

// NewArchiveRepo opens (or creates) the update archive
func NewArchiveRepo(dbPath string) (repo.ArchiveRepo, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS updates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			message_id TEXT,
			sender_id TEXT,
			sender_name TEXT,
			text TEXT,
			sent_at INTEGER NOT NULL,
			applied INTEGER NOT NULL DEFAULT 0,
			received_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_updates_received_at ON updates(received_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &archiveRepo{db: db}, nil
}

// Record stores one processed message
func (a *archiveRepo) Record(ctx context.Context, msg domain.InboundMessage, applied bool) error {
	appliedInt := 0
	if applied {
		appliedInt = 1
	}

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO updates (message_id, sender_id, sender_name, text, sent_at, applied, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, msg.MessageID, msg.SenderID, msg.SenderName, msg.Text, msg.SentAt.Unix(), appliedInt, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record update: %w", err)
	}
	return nil
}

// Recent returns the most recently received messages, newest first
func (a *archiveRepo) Recent(ctx context.Context, limit int) ([]domain.InboundMessage, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT message_id, sender_id, sender_name, text, sent_at
		FROM updates
		ORDER BY received_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list updates: %w", err)
	}
	defer rows.Close()

	var msgs []domain.InboundMessage
	for rows.Next() {
		var msg domain.InboundMessage
		var sentAt int64
		if err := rows.Scan(&msg.MessageID, &msg.SenderID, &msg.SenderName, &msg.Text, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan update: %w", err)
		}
		msg.SentAt = time.Unix(sentAt, 0)
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// Close closes the database connection
func (a *archiveRepo) Close() error {
	return a.db.Close()
}
