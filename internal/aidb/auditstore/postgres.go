package auditstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the production Postgres-backed implementation.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) RecordRefresh(ctx context.Context, event RefreshEvent) error {
	_, err := s.db.Exec(ctx, `
INSERT INTO aidb_refresh_events (id, source, success, duration_ms, occurred_at, error)
VALUES ($1,$2,$3,$4,$5,$6)`,
		uuid.New(), event.Source, event.Success, event.Duration.Milliseconds(), event.OccurredAt, event.Error,
	)
	if err != nil {
		return fmt.Errorf("auditstore: insert refresh event: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecentRefreshes(ctx context.Context, source string, limit int) ([]RefreshEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
SELECT source, success, duration_ms, occurred_at, error
FROM aidb_refresh_events
WHERE source = $1
ORDER BY occurred_at DESC
LIMIT $2`, source, limit)
	if err != nil {
		return nil, fmt.Errorf("auditstore: query refresh events: %w", err)
	}
	defer rows.Close()

	var out []RefreshEvent
	for rows.Next() {
		var ev RefreshEvent
		var durationMs int64
		if err := rows.Scan(&ev.Source, &ev.Success, &durationMs, &ev.OccurredAt, &ev.Error); err != nil {
			return nil, fmt.Errorf("auditstore: scan refresh event: %w", err)
		}
		ev.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, ev)
	}
	return out, nil
}
