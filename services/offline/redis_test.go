package offline

import (
	"context"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStorage(t *testing.T) (*redisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	storage, err := NewRedisStorage(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.(*redisStorage).Close() })
	return storage.(*redisStorage), mr
}

func TestRedisStorage(t *testing.T) {
	ctx := context.Background()
	storage, mr := newRedisStorage(t)

	res := &Response{Status: http.StatusOK, Header: http.Header{"Content-Type": {"text/css"}}, Body: []byte("body{}")}
	require.NoError(t, storage.Put(ctx, "test-v0", "/a.css", res))
	require.NoError(t, storage.Put(ctx, "test-v1", "/a.css", res))
	assert.True(t, mr.Exists(cacheKey("test-v1")))

	got, ok, err := storage.Match(ctx, "test-v1", "/a.css")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, res, got)

	_, ok, err = storage.Match(ctx, "test-v1", "/missing.css")
	assert.NoError(t, err)
	assert.False(t, ok)

	names, err := storage.Caches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"test-v0", "test-v1"}, names)

	require.NoError(t, storage.Delete(ctx, "test-v0"))
	names, err = storage.Caches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"test-v1"}, names)
	assert.False(t, mr.Exists(cacheKey("test-v0")))

	_, ok, err = storage.Match(ctx, "test-v0", "/a.css")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStorage_corruptEntry(t *testing.T) {
	storage, mr := newRedisStorage(t)
	mr.HSet(cacheKey("test-v1"), "/a.css", "{not json")

	_, ok, err := storage.Match(context.Background(), "test-v1", "/a.css")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisStorage_unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStorage(context.Background(), addr)
	assert.Error(t, err)
}

func TestWorker_redisStorage(t *testing.T) {
	ctx := context.Background()
	storage, _ := newRedisStorage(t)
	require.NoError(t, storage.Put(ctx, "ad-rodovia-v0", "/", &Response{Status: http.StatusOK, Body: []byte("old")}))
	w := newWorker(t, storage, originMux(""))

	require.NoError(t, w.Start(ctx))

	names, err := storage.Caches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ad-rodovia-v1"}, names)
	res, ok, err := storage.Match(ctx, "ad-rodovia-v1", "/static/portal.css")
	if assert.NoError(t, err) && assert.True(t, ok) {
		assert.Equal(t, "v1 /static/portal.css", string(res.Body))
		assert.Equal(t, "text/plain", res.Header.Get("Content-Type"))
	}
}
