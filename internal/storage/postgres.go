package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

type PostgresRepository struct {
	db        *sql.DB
	namespace string
}

func NewPostgresRepository(connStr, namespace string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if namespace == "" {
		namespace = DefaultNamespace
	}

	repo := &PostgresRepository{db: db, namespace: namespace}
	if err := repo.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create postgres schema: %w", err)
	}

	return repo, nil
}

func (r *PostgresRepository) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		namespace TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	`

	_, err := r.db.Exec(schema)
	return err
}

func (r *PostgresRepository) LoadBest(ctx context.Context) (int, bool, error) {
	query := `SELECT value FROM kv WHERE namespace = $1`

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

func (r *PostgresRepository) SaveBest(ctx context.Context, ms int) error {
	query := `
		INSERT INTO kv (namespace, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (namespace) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, r.namespace, formatBest(ms), time.Now().UTC())
	return err
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
