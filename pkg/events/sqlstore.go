package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"seoul-store-crawler/pkg/database"
)

// SQLEventStore persists events in a store_events table with an
// auto-increment sequence for per-store ordering.
type SQLEventStore struct {
	db *database.DB
}

func NewSQLEventStore(db *database.DB) (*SQLEventStore, error) {
	s := &SQLEventStore{db: db}
	if err := s.ensureTable(); err != nil {
		return nil, fmt.Errorf("events: ensure table: %w", err)
	}
	return s, nil
}

func (s *SQLEventStore) ensureTable() error {
	qry := `CREATE TABLE IF NOT EXISTS store_events (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		store_id BIGINT NOT NULL,
		type VARCHAR(64) NOT NULL,
		at DATETIME(6) NOT NULL,
		data JSON NOT NULL,
		KEY idx_store_events_store (store_id),
		KEY idx_store_events_order (store_id, id)
	)`
	_, err := s.db.Conn().Exec(qry)
	return err
}

func (s *SQLEventStore) Append(ctx context.Context, e Event) error {
	payload, err := e.MarshalData()
	if err != nil {
		return fmt.Errorf("events: marshal payload: %w", err)
	}

	at := e.Timestamp()
	if at.IsZero() {
		at = time.Now()
	}

	_, err = s.db.Conn().ExecContext(ctx,
		`INSERT INTO store_events (store_id, type, at, data) VALUES (?, ?, ?, ?)`,
		e.StoreID(), e.Type(), at, string(payload))
	if err != nil {
		return fmt.Errorf("events: insert: %w", err)
	}
	return nil
}

func (s *SQLEventStore) ListByStore(ctx context.Context, storeID int64) ([]StoredEvent, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id, store_id, type, at, data FROM store_events WHERE store_id = ? ORDER BY id ASC`,
		storeID)
	if err != nil {
		return nil, fmt.Errorf("events: query: %w", err)
	}
	defer rows.Close()

	var out []StoredEvent
	for rows.Next() {
		var se StoredEvent
		var data sql.NullString
		if err := rows.Scan(&se.Seq, &se.StoreID, &se.Type, &se.Ts, &data); err != nil {
			return nil, fmt.Errorf("events: scan: %w", err)
		}
		if data.Valid {
			se.Payload = []byte(data.String)
		}
		out = append(out, se)
	}
	return out, rows.Err()
}

func (s *SQLEventStore) ReplayStore(ctx context.Context, storeID int64) (*RebuiltState, error) {
	events, err := s.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return Replay(events), nil
}
