// Package history keeps a sqlite log of delivered reminders. The log doubles
// as the de-duplication record that stops a reminder firing twice when the
// daemon restarts within the same minute.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dayplan/dayplan/internal/notifier"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS reminders (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    date         TEXT NOT NULL,
    period       TEXT NOT NULL,
    kind         TEXT NOT NULL,
    clock        TEXT NOT NULL,
    title        TEXT NOT NULL,
    body         TEXT NOT NULL,
    delivered_at INTEGER NOT NULL,
    UNIQUE (date, period, kind, clock)
);
CREATE INDEX IF NOT EXISTS reminders_delivered ON reminders (delivered_at DESC);
`

// Entry is one delivered reminder.
type Entry struct {
	Date        string
	Period      string
	Kind        string
	Clock       string
	Title       string
	Body        string
	DeliveredAt time.Time
}

// Log is the reminder history database.
type Log struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Log, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open history database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error: cannot initialise history database: %w", err)
	}
	return &Log{db: db}, nil
}

// Record stores r and reports whether it was new. A reminder with the same
// date, period, kind and clock as an earlier one is ignored.
func (l *Log) Record(ctx context.Context, r notifier.Reminder) (bool, error) {
	res, err := l.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO reminders (date, period, kind, clock, title, body, delivered_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, r.Date, r.Period, string(r.Kind), r.Clock, r.Title, r.Body, deliveredAt(r).UnixMilli())
	if err != nil {
		return false, fmt.Errorf("error: failed to record reminder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Forget removes the record for r so a later tick may deliver it again.
func (l *Log) Forget(ctx context.Context, r notifier.Reminder) error {
	_, err := l.db.ExecContext(ctx, `
        DELETE FROM reminders WHERE date = ? AND period = ? AND kind = ? AND clock = ?
    `, r.Date, r.Period, string(r.Kind), r.Clock)
	if err != nil {
		return fmt.Errorf("error: failed to forget reminder: %w", err)
	}
	return nil
}

func deliveredAt(r notifier.Reminder) time.Time {
	if r.At.IsZero() {
		return time.Now()
	}
	return r.At
}

// Recent returns up to limit entries, newest first.
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx, `
        SELECT date, period, kind, clock, title, body, delivered_at
        FROM reminders
        ORDER BY delivered_at DESC, id DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("error: failed to query history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			ms int64
		)
		if err := rows.Scan(&e.Date, &e.Period, &e.Kind, &e.Clock, &e.Title, &e.Body, &ms); err != nil {
			return nil, fmt.Errorf("error: failed to scan history row: %w", err)
		}
		e.DeliveredAt = time.UnixMilli(ms)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to iterate history rows: %w", err)
	}
	return out, nil
}

// Prune deletes entries delivered before cutoff and returns how many went.
func (l *Log) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := l.db.ExecContext(ctx, `DELETE FROM reminders WHERE delivered_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("error: failed to prune history: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (l *Log) Close() error {
	return l.db.Close()
}

var _ notifier.Recorder = (*Log)(nil)
