package postgres

import (
	"context"
	"fmt"
)

const sessionsDDL = `
CREATE TABLE IF NOT EXISTS sessions (
	id            UUID PRIMARY KEY,
	user_id       TEXT NOT NULL DEFAULT '',
	cart_snapshot JSONB,
	cart_total    NUMERIC(14,2),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions (updated_at);
`

// EnsureSchema crea la tabla de sesiones si no existe.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, sessionsDDL); err != nil {
		return fmt.Errorf("crear esquema de sesiones: %w", err)
	}
	return nil
}
