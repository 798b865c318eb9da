package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/url-resolver/internal/config"
	"github.com/atinyakov/url-resolver/internal/storage"
)

func TestNewStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("memory by default", func(t *testing.T) {
		s, closeFn, err := newStorage(ctx, &config.Options{}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &storage.MemoryStorage{}, s)
		assert.NoError(t, closeFn())
	})

	t.Run("file when a path is set", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "urls.jsonl")

		s, closeFn, err := newStorage(ctx, &config.Options{FilePath: path}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &storage.FileStorage{}, s)
		assert.FileExists(t, path)
		assert.NoError(t, closeFn())
	})
}

func TestNewService_RoundTrip(t *testing.T) {
	ctx := context.Background()

	s, closeStorage, err := newStorage(ctx, &config.Options{}, zap.NewNop())
	require.NoError(t, err)
	defer closeStorage()

	svc, closeCache, err := newService(ctx, &config.Options{}, s, zap.NewNop())
	require.NoError(t, err)
	defer closeCache()

	token, err := svc.CreateOrFetch(ctx, "https://example.com/a", "")
	require.NoError(t, err)

	longURL, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", longURL)
}

func TestNewService_RedisUnavailable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, closeStorage, err := newStorage(context.Background(), &config.Options{}, zap.NewNop())
	require.NoError(t, err)
	defer closeStorage()

	_, _, err = newService(ctx, &config.Options{RedisAddr: "127.0.0.1:1"}, s, zap.NewNop())
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, &config.Options{Port: "127.0.0.1:0"}, zap.NewNop())
	assert.NoError(t, err)
}

func TestOrNA(t *testing.T) {
	assert.Equal(t, "N/A", orNA(""))
	assert.Equal(t, "v1.0.0", orNA("v1.0.0"))
}

func TestRun_StartupFailureIsReturned(t *testing.T) {
	// A directory cannot be opened as the journal file.
	dir := t.TempDir()

	err := run(context.Background(), &config.Options{Port: "127.0.0.1:0", FilePath: dir}, zap.NewNop())
	assert.Error(t, err)
}
