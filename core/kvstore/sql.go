package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLStore stores records in the sessions table created by core/database migrations.
type SQLStore struct {
	db *sqlx.DB

	getQ, putQ, delQ string
}

// NewSQLStore prepares queries bound to the driver's placeholder style.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{
		db:   db,
		getQ: db.Rebind(`SELECT value FROM sessions WHERE key = ?`),
		putQ: db.Rebind(`INSERT INTO sessions (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		delQ: db.Rebind(`DELETE FROM sessions WHERE key = ?`),
	}
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	if err := s.db.GetContext(ctx, &value, s.getQ, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("kvstore get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.putQ, key, string(value)); err != nil {
		return fmt.Errorf("kvstore put %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.delQ, key); err != nil {
		return fmt.Errorf("kvstore delete %s: %w", key, err)
	}
	return nil
}
