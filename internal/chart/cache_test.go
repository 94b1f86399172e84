package chart

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towerlens/towerlens/internal/model"
)

func TestResultCache(t *testing.T) {
	t.Run("set then get returns an independent copy", func(t *testing.T) {
		cache := NewResultCache[[]model.ChartPoint](time.Minute, 10)
		payload := []model.ChartPoint{{X: "A", Y: 10}, {X: "B", Y: 20}}
		cache.Set("fp", payload)

		got, ok := cache.Get("fp")
		require.True(t, ok)
		assert.Equal(t, payload, got)

		// Mutating the returned copy must not corrupt the cache.
		got[0].Y = 999
		again, ok := cache.Get("fp")
		require.True(t, ok)
		assert.InDelta(t, 10, again[0].Y, 1e-9)
	})

	t.Run("miss on unknown fingerprint", func(t *testing.T) {
		cache := NewResultCache[[]model.ChartPoint](time.Minute, 10)
		_, ok := cache.Get("nope")
		assert.False(t, ok)
	})

	t.Run("ttl expiry", func(t *testing.T) {
		cache := NewResultCache[string](50*time.Millisecond, 10)
		cache.Set("fp", "value")

		_, ok := cache.Get("fp")
		assert.True(t, ok)

		time.Sleep(80 * time.Millisecond)
		_, ok = cache.Get("fp")
		assert.False(t, ok)
	})

	t.Run("clear expired removes exactly the stale entries", func(t *testing.T) {
		cache := NewResultCache[string](time.Minute, 10)
		cache.SetWithTTL("stale", "old", 30*time.Millisecond)
		cache.Set("fresh", "new")

		time.Sleep(60 * time.Millisecond)
		cache.ClearExpired()

		assert.Equal(t, 1, cache.Len())
		_, ok := cache.Get("fresh")
		assert.True(t, ok)
	})

	t.Run("replaces entries with the same fingerprint", func(t *testing.T) {
		cache := NewResultCache[string](time.Minute, 10)
		cache.Set("fp", "first")
		cache.Set("fp", "second")

		assert.Equal(t, 1, cache.Len())
		got, _ := cache.Get("fp")
		assert.Equal(t, "second", got)
	})

	t.Run("evicts oldest past the entry bound", func(t *testing.T) {
		cache := NewResultCache[int](time.Minute, 3)
		for i := 0; i < 5; i++ {
			cache.Set(fmt.Sprintf("fp-%d", i), i)
		}

		assert.Equal(t, 3, cache.Len())
		_, ok := cache.Get("fp-0")
		assert.False(t, ok)
		_, ok = cache.Get("fp-4")
		assert.True(t, ok)
	})

	t.Run("disable makes entries inert, not lost", func(t *testing.T) {
		cache := NewResultCache[string](time.Minute, 10)
		cache.Set("fp", "value")

		cache.Disable()
		_, ok := cache.Get("fp")
		assert.False(t, ok)
		cache.Set("other", "ignored")
		assert.Equal(t, 1, cache.Len())

		cache.Enable()
		got, ok := cache.Get("fp")
		assert.True(t, ok)
		assert.Equal(t, "value", got)
	})
}

func TestFingerprint(t *testing.T) {
	records := func(n int) []model.Record {
		out := make([]model.Record, n)
		for i := range out {
			out[i] = model.Record{"name": fmt.Sprintf("tower-%d", i), "height": float64(i)}
		}
		return out
	}

	t.Run("deterministic", func(t *testing.T) {
		a := Fingerprint(records(5), Options{SortBy: SortValue, Limit: 10})
		b := Fingerprint(records(5), Options{SortBy: SortValue, Limit: 10})
		assert.Equal(t, a, b)
	})

	t.Run("sensitive to whitelisted options", func(t *testing.T) {
		base := Fingerprint(records(5), Options{})
		assert.NotEqual(t, base, Fingerprint(records(5), Options{SortBy: SortValue}))
		assert.NotEqual(t, base, Fingerprint(records(5), Options{Limit: 3}))
		assert.NotEqual(t, base, Fingerprint(records(5), Options{GroupOthers: true}))
	})

	t.Run("ignores non-whitelisted options", func(t *testing.T) {
		a := Fingerprint(records(5), Options{DateFormat: "YYYY"})
		b := Fingerprint(records(5), Options{DateFormat: "M/D"})
		assert.Equal(t, a, b)
	})

	t.Run("large inputs sample head and tail", func(t *testing.T) {
		big := records(100)
		a := Fingerprint(big, Options{})

		// Changing a middle record is invisible to the sample, but the
		// count still separates differently-sized inputs.
		big[50]["height"] = 9999.0
		assert.Equal(t, a, Fingerprint(big, Options{}))

		big[0]["height"] = 9999.0
		assert.NotEqual(t, a, Fingerprint(big, Options{}))

		assert.NotEqual(t, Fingerprint(records(100), Options{}), Fingerprint(records(101), Options{}))
	})
}
