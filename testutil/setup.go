// Package testutil provides shared test fixtures. Nothing here touches
// external services; the store runs on the jsonfile driver inside t.TempDir
// and the cache is always the local implementation.
package testutil

import (
	"testing"

	"github.com/mizunashi/gamevault/server/cache"
	"github.com/mizunashi/gamevault/server/storage"
	"github.com/mizunashi/gamevault/server/storage/jsonfile"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// SetupTestStore creates a store persisted to a temp directory and loads it.
func SetupTestStore(t *testing.T) *storage.Store {
	t.Helper()
	driver, err := jsonfile.Open(t.TempDir())
	require.NoError(t, err, "SetupTestStore: Open")
	store := storage.New(driver, zap.NewNop())
	require.NoError(t, store.Load(), "SetupTestStore: Load")
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// SetupTestStoreAt creates a store persisted to the given directory, so a
// test can reopen the same data with a second store.
func SetupTestStoreAt(t *testing.T, dir string) *storage.Store {
	t.Helper()
	driver, err := jsonfile.Open(dir)
	require.NoError(t, err, "SetupTestStoreAt: Open")
	store := storage.New(driver, zap.NewNop())
	require.NoError(t, store.Load(), "SetupTestStoreAt: Load")
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// SetupTestCache creates LocalCache and LocalPubSub (no Redis required).
func SetupTestCache(t *testing.T) (cache.Cache, cache.PubSub) {
	t.Helper()
	cfg := cache.Config{} // empty RedisAddr → LocalCache
	c, err := cache.NewCache(cfg)
	require.NoError(t, err, "SetupTestCache: NewCache")
	ps, err := cache.NewPubSub(cfg)
	require.NoError(t, err, "SetupTestCache: NewPubSub")
	return c, ps
}
