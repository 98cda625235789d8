package cache

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Worthit/internal/scoring"
)

func TestDecisionKey(t *testing.T) {
	a, err := DecisionKey(scoring.DefaultInputs())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(a, "worthit:decision:"))
	assert.Len(t, a, len("worthit:decision:")+16)

	again, err := DecisionKey(scoring.DefaultInputs())
	require.NoError(t, err)
	assert.Equal(t, a, again)

	b, err := DecisionKey(scoring.DefaultInputs().With(scoring.SetPrice(501)))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecisionKeyNormalizes(t *testing.T) {
	nan, err := DecisionKey(scoring.DefaultInputs().With(scoring.SetPrice(math.NaN())))
	require.NoError(t, err)
	def, err := DecisionKey(scoring.DefaultInputs())
	require.NoError(t, err)
	assert.Equal(t, def, nan)
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0, 0)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	val := []byte(`{"score":60}`)
	require.NoError(t, c.Set(ctx, "k", val))
	val[0] = 'X'

	got, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, `{"score":60}`, string(got))
}

func TestMemoryCacheExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute, 0)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCacheSweepsExpiredOnSet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute, 0)
	c.now = func() time.Time { return now }

	for i := 0; i < 10000; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), []byte("v")))
	}
	assert.Equal(t, 10000, c.Len())

	now = now.Add(time.Hour)
	require.NoError(t, c.Set(ctx, "fresh", []byte("v")))
	assert.Equal(t, 1, c.Len())

	_, ok := c.Get(ctx, "fresh")
	assert.True(t, ok)
}

func TestMemoryCacheSweepKeepsLiveItems(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute, 0)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "old", []byte("v")))
	now = now.Add(50 * time.Second)
	require.NoError(t, c.Set(ctx, "young", []byte("v")))

	now = now.Add(30 * time.Second)
	require.NoError(t, c.Set(ctx, "new", []byte("v")))
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get(ctx, "old")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "young")
	assert.True(t, ok)
}

func TestMemoryCacheEvictsOldestAtCapacity(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0, 3)

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k)))
	}
	// Rewriting a key moves it to the back.
	require.NoError(t, c.Set(ctx, "a", []byte("a2")))
	require.NoError(t, c.Set(ctx, "d", []byte("d")))

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get(ctx, "b")
	assert.False(t, ok)
	got, ok := c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, "a2", string(got))
	for _, k := range []string{"c", "d"} {
		_, ok := c.Get(ctx, k)
		assert.True(t, ok, k)
	}
}

func TestMemoryCacheBoundedUnderDistinctKeys(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0, 100)

	for i := 0; i < 5000; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), []byte("v")))
	}
	assert.Equal(t, 100, c.Len())
	_, ok := c.Get(ctx, "k4999")
	assert.True(t, ok)
	_, ok = c.Get(ctx, "k0")
	assert.False(t, ok)
}
