// Package ledger persists confirmed bookings to SQLite. The ledger is an
// append-only audit trail; the conversation flow never reads it.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/voyago/voyago/pkg/tools"
)

const schema = `
CREATE TABLE IF NOT EXISTS bookings (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	kind       TEXT NOT NULL,
	order_id   TEXT NOT NULL,
	reference  TEXT NOT NULL,
	detail     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_bookings_order_id ON bookings(order_id);
`

// Ledger is a SQLite-backed booking recorder. Implements
// tools.BookingRecorder.
type Ledger struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens (and creates if needed) the ledger database at path.
func Open(path string, logger zerolog.Logger) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}

	logger.Info().Str("path", path).Msg("Booking ledger opened")

	return &Ledger{db: db, logger: logger}, nil
}

// Record appends one confirmed booking.
func (l *Ledger) Record(ctx context.Context, rec tools.BookingRecord) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO bookings (kind, order_id, reference, detail) VALUES (?, ?, ?, ?)`,
		rec.Kind, rec.OrderID, rec.Reference, rec.Detail,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	l.logger.Debug().
		Str("kind", rec.Kind).
		Str("order_id", rec.OrderID).
		Msg("Booking recorded")

	return nil
}

// Entry is one stored booking row.
type Entry struct {
	ID        int64
	Kind      string
	OrderID   string
	Reference string
	Detail    string
	CreatedAt time.Time
}

// Recent returns the most recent bookings, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, kind, order_id, reference, detail, created_at
		 FROM bookings ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.OrderID, &e.Reference, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
