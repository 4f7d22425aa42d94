package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	_, client := setupTestRedis(t)

	fs, err := NewFileStore(filepath.Join(t.TempDir(), "state", "storefront.json"))
	require.NoError(t, err)

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
		"redis":  NewRedisStoreFromClient(client, "test", 0),
	}
}

func TestStores_Contract(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "cart")
			assert.ErrorIs(t, err, ErrCacheMiss)

			require.NoError(t, SetJSON(ctx, s, "cart", sample{ID: "a", Count: 2}))
			require.NoError(t, SetJSON(ctx, s, "customer", sample{ID: "c"}))

			var got sample
			require.NoError(t, GetJSON(ctx, s, "cart", &got))
			assert.Equal(t, sample{ID: "a", Count: 2}, got)

			require.NoError(t, SetJSON(ctx, s, "cart", sample{ID: "a", Count: 3}))
			require.NoError(t, GetJSON(ctx, s, "cart", &got))
			assert.Equal(t, 3, got.Count)

			require.NoError(t, s.Delete(ctx, "cart"))
			assert.ErrorIs(t, GetJSON(ctx, s, "cart", &got), ErrCacheMiss)
			require.NoError(t, s.Delete(ctx, "cart"), "deleting a missing key is not an error")

			require.NoError(t, GetJSON(ctx, s, "customer", &got))
			assert.Equal(t, "c", got.ID)
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	v := []byte(`{"id":"a"}`)
	require.NoError(t, s.Set(ctx, "k", v))
	v[2] = 'X'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"a"}`, string(got))
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storefront.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, SetJSON(ctx, first, "cart", sample{ID: "persisted"}))

	second, err := NewFileStore(path)
	require.NoError(t, err)
	var got sample
	require.NoError(t, GetJSON(ctx, second, "cart", &got))
	assert.Equal(t, "persisted", got.ID)
}

func TestFileStore_RejectsNonJSON(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "s.json"))
	require.NoError(t, err)
	assert.Error(t, s.Set(context.Background(), "k", []byte("not json")))
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	_, err = s.Get(context.Background(), "cart")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStore_NamespaceAndTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)

	s := NewRedisStoreFromClient(client, "device-1", time.Minute)
	require.NoError(t, s.Set(ctx, "cart", []byte(`{}`)))

	assert.True(t, mr.Exists("device-1:cart"))
	mr.FastForward(2 * time.Minute)

	_, err := s.Get(ctx, "cart")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	mr, _ := setupTestRedis(t)

	s, err := Open(ctx, Config{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Config{Driver: "file", Path: filepath.Join(t.TempDir(), "x.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(ctx, Config{Driver: "redis", RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	s.(*RedisStore).Close()

	_, err = Open(ctx, Config{Driver: "etcd"})
	assert.Error(t, err)
}
