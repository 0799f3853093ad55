package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitSchema creates the tables and indexes if they do not exist yet.
// Role and district on users are operator-assigned out of band, so the
// schema carries no promotion machinery.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id uuid PRIMARY KEY,
		name text NOT NULL,
		email text UNIQUE NOT NULL,
		phone text,
		password_hash text NOT NULL,
		role text NOT NULL DEFAULT 'user',
		district text,
		created_at timestamptz NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS complaints (
		id uuid PRIMARY KEY,
		user_id uuid NOT NULL REFERENCES users(id),
		user_name text NOT NULL,
		title text NOT NULL,
		description text NOT NULL,
		category text NOT NULL,
		address text NOT NULL DEFAULT '',
		latitude double precision NOT NULL DEFAULT 0,
		longitude double precision NOT NULL DEFAULT 0,
		district text,
		photo_url text,
		status text NOT NULL DEFAULT 'Pending',
		duplicate_of uuid,
		created_at timestamptz NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints(status);
	CREATE INDEX IF NOT EXISTS idx_complaints_district ON complaints(district);
	CREATE INDEX IF NOT EXISTS idx_complaints_user_id ON complaints(user_id);
	CREATE INDEX IF NOT EXISTS idx_complaints_created_at ON complaints(created_at);

	CREATE TABLE IF NOT EXISTS notifications (
		id uuid PRIMARY KEY,
		user_id uuid NOT NULL REFERENCES users(id),
		complaint_id uuid NOT NULL REFERENCES complaints(id),
		complaint_title text NOT NULL,
		message text NOT NULL,
		read boolean NOT NULL DEFAULT false,
		created_at timestamptz NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, read);
	`

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
