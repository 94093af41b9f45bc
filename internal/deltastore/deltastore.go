// Package deltastore persists Graph delta links per mail folder so
// incremental mail sync survives restarts. Backed by an embedded SQLite
// database in WAL mode with goose-managed schema migrations.
package deltastore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // Pure Go SQLite driver, registers as "sqlite".
)

// Embed migration SQL files for schema versioning.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// walJournalSizeLimit caps the WAL journal at 64 MiB.
const walJournalSizeLimit = 67108864

// dirPerms is used when creating the database directory.
const dirPerms = 0o700

// Store persists one delta link per folder id.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	getStmt   *sql.Stmt
	saveStmt  *sql.Stmt
	clearStmt *sql.Stmt
}

// Open opens (creating if needed) the database at dbPath and applies
// migrations. Use ":memory:" for tests.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), dirPerms); err != nil {
			return nil, fmt.Errorf("deltastore: creating directory: %w", err)
		}
	}

	logger.Debug("opening delta state database", slog.String("path", dbPath))

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("deltastore: open sqlite: %w", err)
	}

	ctx := context.Background()

	if err := setPragmas(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if err := runMigrations(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, logger: logger}

	if err := s.prepareStatements(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("deltastore: prepare statements: %w", err)
	}

	return s, nil
}

// setPragmas configures SQLite for WAL mode and safety.
func setPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA journal_size_limit = %d", walJournalSizeLimit),
	}

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("deltastore: set pragma %q: %w", p, err)
		}
	}

	return nil
}

// runMigrations applies all pending schema migrations to the database.
// Uses the goose v3 Provider API (no global state, context-aware).
func runMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	// Strip the "migrations/" prefix so goose sees files at the root of the FS.
	subFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("deltastore: creating migration sub-filesystem: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, subFS)
	if err != nil {
		return fmt.Errorf("deltastore: creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("deltastore: running migrations: %w", err)
	}

	for _, r := range results {
		logger.Info("applied migration",
			slog.String("source", r.Source.Path),
			slog.Int64("duration_ms", r.Duration.Milliseconds()),
		)
	}

	return nil
}

func (s *Store) prepareStatements(ctx context.Context) error {
	var err error

	s.getStmt, err = s.db.PrepareContext(ctx,
		"SELECT delta_link FROM delta_links WHERE folder_id = ?")
	if err != nil {
		return err
	}

	s.saveStmt, err = s.db.PrepareContext(ctx,
		`INSERT INTO delta_links (folder_id, delta_link, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(folder_id) DO UPDATE SET delta_link = excluded.delta_link, updated_at = excluded.updated_at`)
	if err != nil {
		return err
	}

	s.clearStmt, err = s.db.PrepareContext(ctx,
		"DELETE FROM delta_links WHERE folder_id = ?")

	return err
}

// DeltaLink returns the stored delta link for a folder, or "" when no round
// has completed yet.
func (s *Store) DeltaLink(ctx context.Context, folderID string) (string, error) {
	var link string

	err := s.getStmt.QueryRowContext(ctx, folderID).Scan(&link)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("deltastore: reading delta link: %w", err)
	}

	return link, nil
}

// SaveDeltaLink stores the delta link returned by a completed delta round.
// The link is opaque; it is stored and returned verbatim.
func (s *Store) SaveDeltaLink(ctx context.Context, folderID, link string) error {
	if link == "" {
		return fmt.Errorf("deltastore: refusing to save empty delta link")
	}

	if _, err := s.saveStmt.ExecContext(ctx, folderID, link, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("deltastore: saving delta link: %w", err)
	}

	return nil
}

// ClearDeltaLink removes the stored link for a folder, forcing the next
// delta round to start over. Used when the API reports the token expired.
func (s *Store) ClearDeltaLink(ctx context.Context, folderID string) error {
	if _, err := s.clearStmt.ExecContext(ctx, folderID); err != nil {
		return fmt.Errorf("deltastore: clearing delta link: %w", err)
	}

	return nil
}

// Close releases prepared statements and closes the database.
func (s *Store) Close() error {
	for _, stmt := range []*sql.Stmt{s.getStmt, s.saveStmt, s.clearStmt} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}

	return s.db.Close()
}
