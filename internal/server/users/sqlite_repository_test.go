package users

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gontarzpawel/photo-pigeon-send/internal/common"
	"github.com/gontarzpawel/photo-pigeon-send/internal/server/migrations"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))

	return db
}

func TestSQLiteRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(newTestDB(t))

	created, err := repo.Create(ctx, &User{
		UserName:     "alice",
		PasswordHash: []byte("hash"),
		Role:         DefaultRole,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := repo.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, []byte("hash"), got.PasswordHash)
	assert.Equal(t, DefaultRole, got.Role)
}

func TestSQLiteRepository_GetUnknownUser(t *testing.T) {
	repo := NewSQLiteRepository(newTestDB(t))

	_, err := repo.GetUserByLogin(context.Background(), "nobody")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteRepository_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(newTestDB(t))

	_, err := repo.Create(ctx, &User{UserName: "bob", PasswordHash: []byte("h"), Role: DefaultRole})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &User{UserName: "bob", PasswordHash: []byte("h2"), Role: DefaultRole})
	assert.Error(t, err)
}
