package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/waypoint/pkg/adapters/sqlite/migrations"
	"github.com/aretw0/waypoint/pkg/domain"
	_ "modernc.org/sqlite"
)

// Store implements ports.Substrate on a single SQLite table.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens and migrates a session SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB, now: time.Now}
	if err := store.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get loads the payload stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if s == nil || s.sqlDB == nil {
		return "", domain.ErrStorageUnavailable
	}

	var payload string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT payload FROM session_slots WHERE slot_key = ?`,
		key,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get session slot: %w", err)
	}
	return payload, nil
}

// Set upserts the payload for key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if s == nil || s.sqlDB == nil {
		return domain.ErrStorageUnavailable
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO session_slots (slot_key, payload, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(slot_key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		key, value, s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put session slot: %w", err)
	}
	return nil
}

// Remove deletes the row for key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if s == nil || s.sqlDB == nil {
		return domain.ErrStorageUnavailable
	}

	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM session_slots WHERE slot_key = ?`, key); err != nil {
		return fmt.Errorf("delete session slot: %w", err)
	}
	return nil
}

// Available pings the database.
func (s *Store) Available(ctx context.Context) bool {
	if s == nil || s.sqlDB == nil {
		return false
	}
	return s.sqlDB.PingContext(ctx) == nil
}

// Keys returns every slot key starting with prefix, in key order.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	if s == nil || s.sqlDB == nil {
		return nil, domain.ErrStorageUnavailable
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT slot_key FROM session_slots WHERE slot_key LIKE ? ESCAPE '\' ORDER BY slot_key`,
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("list session slots: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan session slot: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session slots: %w", err)
	}
	return keys, nil
}

// runMigrations applies embedded SQL migrations in filename order.
func (s *Store) runMigrations() error {
	names, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := s.sqlDB.Exec(extractUpMigration(string(content))); err != nil {
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
	}
	return nil
}

// extractUpMigration isolates the `-- +migrate Up` segment for execution.
func extractUpMigration(content string) string {
	if idx := strings.Index(content, "-- +migrate Down"); idx >= 0 {
		content = content[:idx]
	}
	return strings.Replace(content, "-- +migrate Up", "", 1)
}

func escapeLike(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(value)
}
