package db

import (
	"context"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	database, err := NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, database.InitSchema())
	return NewRepository(database)
}

// exerciseKV runs the same contract checks against any backend.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	value, ok, err := kv.Get(ctx, "smart-notes")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)

	require.NoError(t, kv.Put(ctx, "smart-notes", []byte(`[{"id":"1"}]`)))
	value, ok, err = kv.Get(ctx, "smart-notes")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, string(value))

	require.NoError(t, kv.Put(ctx, "smart-notes", []byte(`[]`)))
	value, ok, err = kv.Get(ctx, "smart-notes")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(value))

	_, ok, err = kv.Get(ctx, "other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepositoryKV(t *testing.T) {
	exerciseKV(t, setupTestDB(t))
}

func TestFileKV(t *testing.T) {
	fs := afero.NewMemMapFs()
	kv := NewFileKV(fs, "/data")
	exerciseKV(t, kv)

	exists, err := afero.Exists(fs, "/data/smart-notes.json")
	require.NoError(t, err)
	assert.True(t, exists)

	// No temp files are left behind.
	entries, err := afero.ReadDir(fs, "/data")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileKVSanitizesKey(t *testing.T) {
	fs := afero.NewMemMapFs()
	kv := NewFileKV(fs, "/data")
	require.NoError(t, kv.Put(context.Background(), "a/b", []byte("x")))

	exists, err := afero.Exists(fs, "/data/a_b.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRedisKV(t *testing.T) {
	addr := os.Getenv("SMARTNOTES_TEST_REDIS")
	if addr == "" {
		t.Skip("SMARTNOTES_TEST_REDIS not set")
	}
	ctx := context.Background()
	kv, err := NewRedisKV(ctx, addr, "", 0, "smartnotes-test:"+t.Name()+":")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	exerciseKV(t, kv)
	t.Cleanup(func() { kv.client.Del(ctx, kv.prefix+"smart-notes") })
}
