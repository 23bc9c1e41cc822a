package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/admingen/internal/artifact"
)

var sampleFiles = []artifact.File{
	{Kind: artifact.Model, Path: "src/app/dashboard/posts/all/api/v1/model.ts", Content: "export default {};\n"},
}

func TestKey(t *testing.T) {
	a := Key([]byte(`{"a":1}`), []artifact.Kind{artifact.Model})
	assert.Len(t, a, 64)
	assert.Equal(t, a, Key([]byte(`{"a":1}`), []artifact.Kind{artifact.Model}))
	assert.NotEqual(t, a, Key([]byte(`{"a":2}`), []artifact.Kind{artifact.Model}))
	assert.NotEqual(t, a, Key([]byte(`{"a":1}`), []artifact.Kind{artifact.Model, artifact.Form}))
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(4)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", sampleFiles))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleFiles, got)

	got[0].Content = "changed"
	again, _, _ := c.Get(ctx, "k")
	assert.Equal(t, sampleFiles[0].Content, again[0].Content)
}

func TestMemoryCache_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)
	require.NoError(t, c.Set(ctx, "a", sampleFiles))
	require.NoError(t, c.Set(ctx, "b", sampleFiles))
	require.NoError(t, c.Set(ctx, "a", sampleFiles)) // overwrite does not reorder
	require.NoError(t, c.Set(ctx, "c", sampleFiles))

	assert.Equal(t, 2, c.Len())
	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "c")
	assert.True(t, ok)
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	require.NoError(t, c.Set(context.Background(), "k", sampleFiles))
	_, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

// Runs against a real server when ADMINGEN_TEST_REDIS_ADDR is set.
func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("ADMINGEN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ADMINGEN_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := Dial(ctx, addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	c := NewRedisCache(client, time.Minute)
	key := Key([]byte(t.Name()), nil)
	t.Cleanup(func() { client.Del(ctx, keyPrefix+key) })

	require.NoError(t, c.Set(ctx, key, sampleFiles))
	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleFiles, got)

	_, ok, err = c.Get(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}
