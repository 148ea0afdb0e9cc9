package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	// Blank import required for SQLite driver registration
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"

	"grapetracker/internal/infrastructure/crypto"
	"grapetracker/internal/infrastructure/migration"
	"grapetracker/internal/infrastructure/storage"
	"grapetracker/internal/utils/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Sealer шифрует токен перед записью на диск
type Sealer interface {
	Seal(plain, label string) (string, error)
	Open(sealed, label string) (string, error)
}

// TokenStore keeps the session token in a local SQLite file, sealed with a
// key kept next to the database.
type TokenStore struct {
	db     *sql.DB
	sealer Sealer
	clock  clockwork.Clock
	log    *slog.Logger
}

var _ storage.TokenStore = (*TokenStore)(nil)

// KeyPath - файл ключа шифрования рядом с базой
func KeyPath(dbPath string) string {
	return dbPath + ".key"
}

// Open creates the database file and its key if needed, migrates it and opens it.
func Open(path string, log *slog.Logger) (*TokenStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	key, err := crypto.LoadOrCreateKey(KeyPath(path))
	if err != nil {
		return nil, fmt.Errorf("token key: %w", err)
	}
	box, err := crypto.NewBox(key)
	if err != nil {
		return nil, fmt.Errorf("token key: %w", err)
	}

	mg := migration.NewMigration(migrationsFS, "migrations", "sqlite3://"+path, migration.DefaultEngine)
	if err := mg.Up(); err != nil {
		return nil, fmt.Errorf("migrate token store: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}

	return New(db, box, clockwork.NewRealClock(), log), nil
}

// New wraps an already opened and migrated database.
func New(db *sql.DB, sealer Sealer, clock clockwork.Clock, log *slog.Logger) *TokenStore {
	return &TokenStore{
		db:     db,
		sealer: sealer,
		clock:  clock,
		log:    log.With("component", "token_store"),
	}
}

func (s *TokenStore) Save(ctx context.Context, appID, token string) error {
	sealed, err := s.sealer.Seal(token, appID)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tokens (app_id, token, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(app_id) DO UPDATE SET token = excluded.token, saved_at = excluded.saved_at
	`, appID, sealed, s.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	s.log.Debug("token saved", "app_id", appID)
	return nil
}

// Load returns ErrTokenNotFound for a row that no longer opens with the
// current key, so the user simply logs in again.
func (s *TokenStore) Load(ctx context.Context, appID string) (string, error) {
	var sealed string
	err := s.db.QueryRowContext(ctx, "SELECT token FROM tokens WHERE app_id = ?", appID).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}

	token, err := s.sealer.Open(sealed, appID)
	if err != nil {
		s.log.Warn("stored token is unreadable, discarding", "app_id", appID, logger.Err(err))
		return "", storage.ErrTokenNotFound
	}
	return token, nil
}

func (s *TokenStore) Delete(ctx context.Context, appID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM tokens WHERE app_id = ?", appID); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	s.log.Debug("token deleted", "app_id", appID)
	return nil
}

func (s *TokenStore) Close() error {
	return s.db.Close()
}
