package clinic

import (
	"context"
	"database/sql"
	"fmt"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	user_id BIGINT PRIMARY KEY,
	username TEXT,
	state_kind TEXT,
	state_day TEXT,
	state_slot TEXT,
	state_name TEXT,
	last_activity_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS bookings (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	name TEXT NOT NULL,
	phone TEXT NOT NULL,
	day TEXT NOT NULL,
	slot TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS messages (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	username TEXT,
	message_text TEXT NOT NULL,
	category TEXT NOT NULL,
	origin TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

type postgresStore struct {
	db *sql.DB
}

// NewPostgresStore applies the schema and returns a Postgres-backed Store.
func NewPostgresStore(db *sql.DB) (Store, error) {
	if _, err := db.Exec(postgresSchema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &postgresStore{db: db}, nil
}

func (r *postgresStore) SaveState(ctx context.Context, userID int64, username string, st *State) error {
	kind, day, slot, name := stateColumns(st)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, username, state_kind, state_day, state_slot, state_name, last_activity_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			state_kind = EXCLUDED.state_kind,
			state_day = EXCLUDED.state_day,
			state_slot = EXCLUDED.state_slot,
			state_name = EXCLUDED.state_name,
			last_activity_at = now()
	`, userID, nullable(username), kind, day, slot, name)
	return err
}

func (r *postgresStore) GetState(ctx context.Context, userID int64) (*State, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT state_kind, state_day, state_slot, state_name
		FROM users
		WHERE user_id = $1
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

func (r *postgresStore) ClearState(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET state_kind = NULL, state_day = NULL, state_slot = NULL, state_name = NULL
		WHERE user_id = $1
	`, userID)
	return err
}

func (r *postgresStore) Touch(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET last_activity_at = now() WHERE user_id = $1
	`, userID)
	return err
}

func (r *postgresStore) SaveBooking(ctx context.Context, b *Booking) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bookings (user_id, name, phone, day, slot)
		VALUES ($1, $2, $3, $4, $5)
	`, b.UserID, b.Name, b.Phone, b.Day, b.Slot)
	return err
}

func (r *postgresStore) SaveMessage(ctx context.Context, e *LogEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (user_id, username, message_text, category, origin)
		VALUES ($1, $2, $3, $4, $5)
	`, e.UserID, nullable(e.Username), e.Text, string(e.Category), string(e.Origin))
	return err
}

func (r *postgresStore) RecentBookings(ctx context.Context, limit int) ([]Booking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, phone, day, slot, created_at
		FROM bookings
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Phone, &b.Day, &b.Slot, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *postgresStore) RecentMessages(ctx context.Context, limit int) ([]LogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, COALESCE(username, ''), message_text, category, origin, created_at
		FROM messages
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LogEntry
	for rows.Next() {
		var e LogEntry
		var category, origin string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &e.Text, &category, &origin, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Category = Category(category)
		e.Origin = Origin(origin)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *postgresStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func stateColumns(st *State) (kind, day, slot, name sql.NullString) {
	if st == nil {
		return
	}
	kind = sql.NullString{String: string(st.Kind), Valid: true}
	day = nullable(st.Day)
	slot = nullable(st.Slot)
	name = nullable(st.Name)
	return
}

func stateFromColumns(kind, day, slot, name sql.NullString) *State {
	if !kind.Valid {
		return nil
	}
	return &State{
		Kind: Kind(kind.String),
		Day:  day.String,
		Slot: slot.String,
		Name: name.String,
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
