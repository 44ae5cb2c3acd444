package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hperssn/reflex/internal/config"
)

func TestParseBest(t *testing.T) {
	tests := []struct {
		raw string
		ms  int
		ok  bool
	}{
		{"237", 237, true},
		{" 180\n", 180, true},
		{"0", 0, true},
		{"", 0, false},
		{"fast", 0, false},
		{"12.5", 0, false},
		{"-4", 0, false},
		{"null", 0, false},
	}
	for _, tt := range tests {
		ms, ok := parseBest(tt.raw)
		assert.Equal(t, tt.ok, ok, "raw %q", tt.raw)
		assert.Equal(t, tt.ms, ms, "raw %q", tt.raw)
	}
}

func exerciseRepository(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := repo.LoadBest(ctx)
	require.NoError(t, err)
	require.False(t, ok, "fresh repository should have no best")

	require.NoError(t, repo.SaveBest(ctx, 312))
	ms, ok, err := repo.LoadBest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 312, ms)

	require.NoError(t, repo.SaveBest(ctx, 201))
	ms, ok, err = repo.LoadBest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 201, ms)
}

func TestMemoryRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryRepository())
}

func TestMemoryRepositoryMalformed(t *testing.T) {
	repo := NewMemoryRepositoryWithRaw("not-a-number")

	_, ok, err := repo.LoadBest(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteRepository(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "reflex.db"), "")
	require.NoError(t, err)
	defer repo.Close()

	exerciseRepository(t, repo)
}

func TestSQLiteRepositorySurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reflex.db")
	ctx := context.Background()

	repo, err := NewSQLiteRepository(path, "reflex_best")
	require.NoError(t, err)
	require.NoError(t, repo.SaveBest(ctx, 199))
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRepository(path, "reflex_best")
	require.NoError(t, err)
	defer reopened.Close()

	ms, ok, err := reopened.LoadBest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 199, ms)

	other, err := NewSQLiteRepository(path, "someone_else")
	require.NoError(t, err)
	defer other.Close()

	_, ok, err = other.LoadBest(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "namespaces must not share values")
}

func TestSQLiteRepositoryMalformed(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "reflex.db"), "")
	require.NoError(t, err)
	defer repo.Close()

	_, err = repo.db.Exec(
		`INSERT INTO kv (namespace, value, updated_at) VALUES (?, ?, ?)`,
		DefaultNamespace, "{garbage", time.Now().UTC(),
	)
	require.NoError(t, err)

	_, ok, err := repo.LoadBest(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("REFLEX_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("REFLEX_TEST_POSTGRES_DSN not set")
	}

	ns := "reflex_test_" + time.Now().Format("150405.000000")
	repo, err := NewPostgresRepository(dsn, ns)
	require.NoError(t, err)
	defer repo.Close()

	exerciseRepository(t, repo)
}

func TestOpen(t *testing.T) {
	repo, err := Open(config.StoreConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepository{}, repo)

	repo, err = Open(config.StoreConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteRepository{}, repo)
	require.NoError(t, repo.Close())

	_, err = Open(config.StoreConfig{Driver: "redis"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownDriver))
}
