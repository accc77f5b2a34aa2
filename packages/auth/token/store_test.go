package token

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sqliteStore, err := NewSQLiteStore("sqlite://" + filepath.Join(dir, "tokens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	fileStore, err := NewFileStore(filepath.Join(dir, "nested", "token.json"))
	require.NoError(t, err)

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
		"file":   fileStore,
	}
}

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Set(ctx, "abc"))
			got, err := store.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, "abc", got)

			require.NoError(t, store.Set(ctx, "def"))
			got, err = store.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, "def", got)

			require.NoError(t, store.Delete(ctx))
			_, err = store.Get(ctx)
			assert.ErrorIs(t, err, ErrNotFound)

			// deleting twice is fine
			assert.NoError(t, store.Delete(ctx))
		})
	}
}

func TestStore_ConcurrentDelete(t *testing.T) {
	ctx := context.Background()

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "abc"))

			var wg sync.WaitGroup
			errs := make(chan error, 8)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs <- store.Delete(ctx)
				}()
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				assert.NoError(t, err)
			}
			_, err := store.Get(ctx)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		conn    string
		want    any
		wantErr bool
	}{
		{name: "empty is memory", conn: "", want: &MemoryStore{}},
		{name: "memory", conn: "memory:", want: &MemoryStore{}},
		{name: "sqlite url", conn: "sqlite://" + filepath.Join(dir, "a.db"), want: &SQLiteStore{}},
		{name: "sqlite colon", conn: "sqlite:" + filepath.Join(dir, "b.db"), want: &SQLiteStore{}},
		{name: "file url", conn: "file://" + filepath.Join(dir, "t.json"), want: &FileStore{}},
		{name: "plain path", conn: filepath.Join(dir, "t2.json"), want: &FileStore{}},
		{name: "unknown scheme", conn: "redis://localhost:6379", wantErr: true},
		{name: "sqlite without path", conn: "sqlite:", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, store)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
			if s, ok := store.(*SQLiteStore); ok {
				_ = s.Close()
			}
		})
	}
}

func TestFileStore_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token": "secret"}`, string(data))
}

func TestFileStore_KeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme": "dark", "token": "old"}`), 0600))

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Delete(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme": "dark"}`, string(data))
}

func TestFileStore_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0600))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Get(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFileStore_CachesUntilChanged(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "token.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "first"))
	require.NoError(t, os.WriteFile(path, []byte(`{"token": "external"}`), 0600))

	// without a watcher the cached value is served
	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestFileStore_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "token.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "first"))
	require.NoError(t, store.Watch(ctx))

	require.NoError(t, os.WriteFile(path, []byte(`{"token": "external"}`), 0600))

	assert.Eventually(t, func() bool {
		got, err := store.Get(ctx)
		return err == nil && got == "external"
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(path))

	assert.Eventually(t, func() bool {
		_, err := store.Get(ctx)
		return err == ErrNotFound
	}, 2*time.Second, 20*time.Millisecond)
}
