package tokenstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// SQLBackend stores the token as one row of auth_tokens.
type SQLBackend struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLite opens (creating if needed) a SQLite database file and applies
// pending migrations.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLBackend, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return newSQLBackend(ctx, db, DialectSQLite)
}

// OpenPostgres connects through pgx and applies pending migrations.
func OpenPostgres(ctx context.Context, databaseURL string) (*SQLBackend, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}
	return newSQLBackend(ctx, db, DialectPostgres)
}

func newSQLBackend(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLBackend, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	b := &SQLBackend{db: db, dialect: dialect}
	if err := b.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (b *SQLBackend) rebind(query string) string {
	if b.dialect != DialectPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (b *SQLBackend) migrate(ctx context.Context) error {
	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return err
	}

	if _, err := b.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	for _, file := range files {
		var applied int
		if err := b.db.QueryRowContext(ctx, b.rebind(`SELECT COUNT(1) FROM schema_migrations WHERE filename = ?`), file).Scan(&applied); err != nil {
			return err
		}
		if applied > 0 {
			continue
		}

		content, err := migrationFiles.ReadFile(path.Join("migrations", file))
		if err != nil {
			return err
		}

		tx, err := b.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %s failed: %w", file, err)
		}
		if _, err := tx.ExecContext(ctx, b.rebind(`INSERT INTO schema_migrations (filename) VALUES (?)`), file); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

func (b *SQLBackend) Load(ctx context.Context) (string, error) {
	var value string
	err := b.db.QueryRowContext(ctx, b.rebind(`SELECT value FROM auth_tokens WHERE name = ?`), Key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", ErrNoToken
	}
	return value, nil
}

func (b *SQLBackend) Save(ctx context.Context, value string) error {
	_, err := b.db.ExecContext(ctx, b.rebind(`
		INSERT INTO auth_tokens (name, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (name)
		DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`), Key, value)
	return err
}

func (b *SQLBackend) Delete(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, b.rebind(`DELETE FROM auth_tokens WHERE name = ?`), Key)
	return err
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}
