package prefs

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/mutker/vitalmon/internal/errors"
	"codeberg.org/mutker/vitalmon/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists the record as the single row of a SQLite table.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger logger.Logger
	mu     sync.Mutex
}

func NewSQLiteStore(path string, log logger.Logger) (*SQLiteStore, error) {
	errFactory := errors.New()

	if path == "" {
		return nil, errFactory.New(ErrInvalidPath)
	}

	if err := os.MkdirAll(filepath.Dir(path), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  path,
			Error: err.Error(),
		})
	}

	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "open_database",
			Error: err.Error(),
		})
	}
	db.SetMaxOpenConns(1)

	if err := ValidateAndUpdateSchema(db, path, log); err != nil {
		db.Close()
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	log.Debug().
		Str("path", path).
		Int("schema_version", SchemaVersion).
		Msg("Preferences repository initialized")

	return &SQLiteStore{db: db, path: path, logger: log}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*DisplayConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		cpu, mem, nw, alert int
		mode                string
	)
	err := s.db.QueryRowContext(ctx, selectPreferencesSQL).Scan(&cpu, &mem, &nw, &mode, &alert)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrLoadPrefs, err)
	}

	cfg := DisplayConfig{
		ShowCPU: cpu == 1,
		ShowMem: mem == 1,
		ShowNW:  nw == 1,
		IsAlert: alert == 1,
	}
	if err := cfg.Mode.UnmarshalText([]byte(mode)); err != nil {
		return nil, errors.New().Wrap(errors.ErrLoadPrefs, err)
	}

	return &cfg, nil
}

func (s *SQLiteStore) Save(ctx context.Context, cfg DisplayConfig) error {
	mode, err := cfg.Mode.MarshalText()
	if err != nil {
		return errors.New().Wrap(errors.ErrSavePrefs, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, upsertPreferencesSQL,
		boolToInt(cfg.ShowCPU),
		boolToInt(cfg.ShowMem),
		boolToInt(cfg.ShowNW),
		string(mode),
		boolToInt(cfg.IsAlert),
		time.Now().Unix(),
	)
	if err != nil {
		return errors.New().Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		s.logger.Debug().Err(err).Msg("Failed to checkpoint WAL")
	}

	if err := s.db.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
