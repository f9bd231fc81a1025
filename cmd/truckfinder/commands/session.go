package commands

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jask/truckfinder/internal/config"
	"github.com/jask/truckfinder/internal/database"
	"github.com/jask/truckfinder/internal/storage"
	"github.com/jask/truckfinder/internal/store"
)

// session is the opened storage and the store loaded from it.
type session struct {
	cfg     config.Config
	storage storage.Storage
	store   *store.Store
	db      *sql.DB
}

func openStorage(cfg config.StorageConfig) (storage.Storage, *sql.DB, error) {
	switch cfg.Driver {
	case config.DriverFile:
		fs, err := storage.NewFileStorage(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open file storage: %w", err)
		}
		return fs, nil, nil
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("mkdir db dir: %w", err)
		}
		if err := database.RunMigrations(cfg.Path); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		db, err := database.Open(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open db: %w", err)
		}
		return database.NewKVStore(db), db, nil
	}
}

func openSession(ctx context.Context, cfg config.Config) (*session, error) {
	st, db, err := openStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}
	s := store.Load(ctx, st, cfg.Storage.Key,
		store.WithLogger(storeLogger()),
		store.WithWriteTimeout(cfg.Storage.WriteTimeout),
		store.WithDarkModeDefault(cfg.UI.DarkMode),
	)
	return &session{cfg: cfg, storage: st, store: s, db: db}, nil
}

// stdWriter writes wherever the standard logger currently writes.
type stdWriter struct{}

func (stdWriter) Write(p []byte) (int, error) { return log.Writer().Write(p) }

// storeLogger follows the standard logger's output, so redirecting it while
// the UI runs also silences store warnings.
func storeLogger() *log.Logger {
	return log.New(stdWriter{}, "store: ", log.LstdFlags)
}

func (s *session) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// saved reports the last persistence failure of a command's mutation.
func (s *session) saved() error {
	if err := s.store.PersistErr(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
