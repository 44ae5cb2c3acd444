package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db        *sql.DB
	namespace string
}

func NewSQLiteRepository(dbPath, namespace string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if namespace == "" {
		namespace = DefaultNamespace
	}

	repo := &SQLiteRepository{db: db, namespace: namespace}
	if err := repo.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}

	return repo, nil
}

func (r *SQLiteRepository) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		namespace TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`

	_, err := r.db.Exec(schema)
	return err
}

func (r *SQLiteRepository) LoadBest(ctx context.Context) (int, bool, error) {
	query := `SELECT value FROM kv WHERE namespace = ?`

	var raw string
	err := r.db.QueryRowContext(ctx, query, r.namespace).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	ms, ok := parseBest(raw)
	return ms, ok, nil
}

func (r *SQLiteRepository) SaveBest(ctx context.Context, ms int) error {
	query := `
		INSERT INTO kv (namespace, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, r.namespace, formatBest(ms), time.Now().UTC())
	return err
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
