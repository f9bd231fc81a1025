package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jask/truckfinder/internal/storage"
)

// KVStore is a storage.Storage backed by the kv_store table.
type KVStore struct {
	db *sql.DB
}

func NewKVStore(db *sql.DB) *KVStore { return &KVStore{db: db} }

var _ storage.Storage = (*KVStore)(nil)

func (s *KVStore) GetItem(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *KVStore) SetItem(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("database: empty key")
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO kv_store(key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
	 value=excluded.value,
	 updated_at=excluded.updated_at;
	`, key, value, Now())
	return err
}

func (s *KVStore) RemoveItem(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key)
	return err
}
