package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towerlens/towerlens/internal/model"
)

func numberRecords(field string, values ...any) []model.Record {
	records := make([]model.Record, len(values))
	for i, v := range values {
		records[i] = model.Record{field: v}
	}
	return records
}

func TestStats(t *testing.T) {
	t.Run("basic statistics", func(t *testing.T) {
		records := numberRecords("height", 10.0, 20.0, 30.0, 40.0)
		stats := Stats(records, "height")

		assert.Equal(t, 4, stats.Count)
		assert.InDelta(t, 100, stats.Sum, 1e-9)
		assert.InDelta(t, 25, stats.Avg, 1e-9)
		assert.InDelta(t, 10, stats.Min, 1e-9)
		assert.InDelta(t, 40, stats.Max, 1e-9)
		assert.InDelta(t, 25, stats.Median, 1e-9)
		// Nearest-rank quartiles: sorted[1] and sorted[3].
		assert.InDelta(t, 20, stats.Q1, 1e-9)
		assert.InDelta(t, 40, stats.Q3, 1e-9)
		// Population standard deviation.
		assert.InDelta(t, 11.180339887, stats.StdDev, 1e-6)
	})

	t.Run("odd count median", func(t *testing.T) {
		records := numberRecords("v", 3.0, 1.0, 2.0)
		assert.InDelta(t, 2, Stats(records, "v").Median, 1e-9)
	})

	t.Run("drops unparseable values", func(t *testing.T) {
		records := numberRecords("v", "10", "n/a", nil, 30.0)
		stats := Stats(records, "v")
		assert.Equal(t, 2, stats.Count)
		assert.InDelta(t, 40, stats.Sum, 1e-9)
	})

	t.Run("empty set short-circuits to zero", func(t *testing.T) {
		stats := Stats(numberRecords("v", "bad", nil), "v")
		assert.Equal(t, model.FieldStats{}, stats)
	})
}

func TestFrequencyDistribution(t *testing.T) {
	records := []model.Record{
		{"status": "active"},
		{"status": "active"},
		{"status": "inactive"},
		{"status": nil},
	}

	entries := FrequencyDistribution(records, "status")
	require.Len(t, entries, 3)

	assert.Equal(t, "active", entries[0].Value)
	assert.Equal(t, 2, entries[0].Count)
	assert.InDelta(t, 50, entries[0].Percentage, 1e-9)

	assert.Equal(t, "inactive", entries[1].Value)
	assert.Equal(t, 1, entries[1].Count)

	// Missing values form their own bucket.
	assert.Equal(t, "null", entries[2].Value)
	assert.Equal(t, 1, entries[2].Count)
	assert.InDelta(t, 25, entries[2].Percentage, 1e-9)
}
