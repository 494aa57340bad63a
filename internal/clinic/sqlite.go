package clinic

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	user_id INTEGER PRIMARY KEY,
	username TEXT,
	state_kind TEXT,
	state_day TEXT,
	state_slot TEXT,
	state_name TEXT,
	last_activity_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bookings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	phone TEXT NOT NULL,
	day TEXT NOT NULL,
	slot TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	username TEXT,
	message_text TEXT NOT NULL,
	category TEXT NOT NULL,
	origin TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
`

// SQLiteStore is the single-binary alternative to Postgres: the clinic ran
// the original bot off one SQLite file, and small deployments still can.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path with WAL
// journaling and applies the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveState(ctx context.Context, userID int64, username string, st *State) error {
	kind, day, slot, name := stateColumns(st)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, username, state_kind, state_day, state_slot, state_name, last_activity_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			username = excluded.username,
			state_kind = excluded.state_kind,
			state_day = excluded.state_day,
			state_slot = excluded.state_slot,
			state_name = excluded.state_name,
			last_activity_at = excluded.last_activity_at
	`, userID, nullable(username), kind, day, slot, name, time.Now().Unix())
	return err
}

func (s *SQLiteStore) GetState(ctx context.Context, userID int64) (*State, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT state_kind, state_day, state_slot, state_name
		FROM users
		WHERE user_id = ?
	`, userID)

	var kind, day, slot, name sql.NullString
	err := row.Scan(&kind, &day, &slot, &name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan state: %w", err)
	}
	return stateFromColumns(kind, day, slot, name), nil
}

func (s *SQLiteStore) ClearState(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET state_kind = NULL, state_day = NULL, state_slot = NULL, state_name = NULL
		WHERE user_id = ?
	`, userID)
	return err
}

func (s *SQLiteStore) Touch(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET last_activity_at = ? WHERE user_id = ?
	`, time.Now().Unix(), userID)
	return err
}

func (s *SQLiteStore) SaveBooking(ctx context.Context, b *Booking) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (user_id, name, phone, day, slot, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.UserID, b.Name, b.Phone, b.Day, b.Slot, b.CreatedAt.Unix())
	return err
}

func (s *SQLiteStore) SaveMessage(ctx context.Context, e *LogEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (user_id, username, message_text, category, origin, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.UserID, nullable(e.Username), e.Text, string(e.Category), string(e.Origin), e.CreatedAt.Unix())
	return err
}

func (s *SQLiteStore) RecentBookings(ctx context.Context, limit int) ([]Booking, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, phone, day, slot, created_at
		FROM bookings
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		var createdAt int64
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Phone, &b.Day, &b.Slot, &createdAt); err != nil {
			return nil, err
		}
		b.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) RecentMessages(ctx context.Context, limit int) ([]LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, COALESCE(username, ''), message_text, category, origin, created_at
		FROM messages
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LogEntry
	for rows.Next() {
		var e LogEntry
		var category, origin string
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &e.Text, &category, &origin, &createdAt); err != nil {
			return nil, err
		}
		e.Category = Category(category)
		e.Origin = Origin(origin)
		e.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
