package metrics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS daily_metrics (
	day            TEXT PRIMARY KEY,
	distance_moved REAL NOT NULL DEFAULT 0,
	area_resized   REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const lastNotifiedKey = "last_notified"

// Store persists daily metrics in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the database at path.
func OpenStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open metrics database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metrics schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add accumulates m into day's row and returns the new total.
func (s *Store) Add(ctx context.Context, day time.Time, m Metrics) (Metrics, error) {
	key := DayKey(day)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_metrics (day, distance_moved, area_resized)
		VALUES (?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			distance_moved = distance_moved + excluded.distance_moved,
			area_resized   = area_resized + excluded.area_resized
	`, key, m.DistanceMoved, m.AreaResized)
	if err != nil {
		return Metrics{}, fmt.Errorf("failed to record metrics for %s: %w", key, err)
	}

	var total Metrics
	err = s.db.QueryRowContext(ctx,
		`SELECT distance_moved, area_resized FROM daily_metrics WHERE day = ?`, key,
	).Scan(&total.DistanceMoved, &total.AreaResized)
	if err != nil {
		return Metrics{}, fmt.Errorf("failed to read metrics for %s: %w", key, err)
	}
	return total, nil
}

// History loads the rows inside the depth-day window ending at now.
func (s *Store) History(ctx context.Context, depth int, now time.Time) (*History, error) {
	h := NewHistory(depth)
	cutoff := DayKey(h.Cutoff(now))

	rows, err := s.db.QueryContext(ctx, `
		SELECT day, distance_moved, area_resized FROM daily_metrics
		WHERE day >= ?
		ORDER BY day
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var day string
		var m Metrics
		if err := rows.Scan(&day, &m.DistanceMoved, &m.AreaResized); err != nil {
			return nil, fmt.Errorf("failed to scan metrics: %w", err)
		}
		t, err := time.ParseInLocation(dayLayout, day, now.Location())
		if err != nil {
			continue
		}
		h.Set(now, t, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metrics: %w", err)
	}
	return h, nil
}

// Prune deletes rows older than cutoff's day and returns how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM daily_metrics WHERE day < ?`, DayKey(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to prune metrics: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// LastNotified returns the day a milestone was last announced.
func (s *Store) LastNotified(ctx context.Context) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, lastNotifiedKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", lastNotifiedKey, err)
	}
	return value, true, nil
}

// SetLastNotified records day as the last milestone announcement.
func (s *Store) SetLastNotified(ctx context.Context, day time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, lastNotifiedKey, DayKey(day))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", lastNotifiedKey, err)
	}
	return nil
}
