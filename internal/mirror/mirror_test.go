package mirror

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/coinage/internal/logger"
	"github.com/mesh-intelligence/coinage/pkg/types"
)

// storeFactories builds each driver for the shared contract tests.
var storeFactories = map[string]func(t *testing.T) Store{
	"file": func(t *testing.T) Store {
		s, err := NewFileStore(t.TempDir())
		require.NoError(t, err)
		return s
	},
	"sqlite": func(t *testing.T) Store {
		s, err := OpenSQLite(context.Background(), t.TempDir())
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	},
	"redis": testRedisStore,
}

// testRedisStore returns a store on DB 15 with a per-test prefix.
// Skips if Redis is unavailable.
func testRedisStore(t *testing.T) Store {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = types.DefaultRedisAddr
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Redis not reachable: %v", err)
	}

	prefix := "coinage-test:" + t.Name() + ":"
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return NewRedisStore(client, prefix)
}

func TestStoreContract(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)

			_, err := s.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Put(ctx, "greeting", []byte(`"hello"`)))
			got, err := s.Get(ctx, "greeting")
			require.NoError(t, err)
			assert.Equal(t, `"hello"`, string(got))

			require.NoError(t, s.Put(ctx, "greeting", []byte(`"again"`)))
			got, err = s.Get(ctx, "greeting")
			require.NoError(t, err)
			assert.Equal(t, `"again"`, string(got))

			require.NoError(t, s.Delete(ctx, "greeting"))
			_, err = s.Get(ctx, "greeting")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, s.Delete(ctx, "greeting"), "deleting an absent key succeeds")
		})
	}
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), KeyCategories, []byte("[]")))

	data, err := os.ReadFile(filepath.Join(dir, "categories.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Put(context.Background(), "../escape", []byte("x")))
	_, err = s.Get(context.Background(), "a/b")
	assert.Error(t, err)
}

func TestSQLiteStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := OpenSQLite(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, KeyNeologisms, []byte("[]")))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(ctx, dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, KeyNeologisms)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
	assert.FileExists(t, filepath.Join(dir, SQLiteFileName))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()

	t.Run("file driver", func(t *testing.T) {
		s, err := Open(ctx, types.Config{Mirror: types.MirrorFile, DataDir: t.TempDir()}, log)
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &FileStore{}, s)
	})

	t.Run("sqlite driver", func(t *testing.T) {
		s, err := Open(ctx, types.Config{Mirror: types.MirrorSQLite, DataDir: t.TempDir()}, log)
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &SQLiteStore{}, s)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(ctx, types.Config{Mirror: "s3"}, log)
		assert.ErrorIs(t, err, types.ErrMirrorUnknown)
	})
}
