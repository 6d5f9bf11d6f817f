package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:storagetest?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS session (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
DELETE FROM session;
`)
	require.NoError(t, err)
	return db
}

func TestSQLiteRepository_SetGet(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))

	require.NoError(t, r.Set(ctx, "token", []byte("abc")))

	got, err := r.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	// upsert
	require.NoError(t, r.Set(ctx, "token", []byte("def")))
	got, err = r.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("def"), got)
}

func TestSQLiteRepository_GetMissing(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))

	got, err := r.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteRepository_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))

	require.NoError(t, r.Set(ctx, "token", []byte("abc")))
	require.NoError(t, r.Set(ctx, "user", []byte(`{"name":"Ana"}`)))

	require.NoError(t, r.Delete(ctx, "token"))
	got, err := r.Get(ctx, "token")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, r.Clear(ctx))
	got, err = r.Get(ctx, "user")
	require.NoError(t, err)
	assert.Nil(t, got)

	// clearing an empty store is fine
	require.NoError(t, r.Clear(ctx))
}

func TestInitDatabase(t *testing.T) {
	ctx := context.Background()
	db, err := InitDatabase(ctx, "file:storageinit?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	r := NewSQLiteRepository(db)
	require.NoError(t, r.Set(ctx, "token", []byte("abc")))
	got, err := r.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}
