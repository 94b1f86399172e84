package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towerlens/towerlens/internal/coerce"
	"github.com/towerlens/towerlens/internal/model"
)

func TestGroupByField(t *testing.T) {
	records := []model.Record{
		{"cat": "A", "v": 10.0},
		{"cat": "A", "v": 30.0},
		{"cat": "B", "v": 20.0},
	}

	t.Run("avg aggregation", func(t *testing.T) {
		results := GroupByField(records, "cat", "v", coerce.AggAvg)
		require.Len(t, results, 2)

		assert.Equal(t, "A", results[0].Group)
		assert.InDelta(t, 20, results[0].Value, 1e-9)
		assert.Equal(t, 2, results[0].Count)

		assert.Equal(t, "B", results[1].Group)
		assert.InDelta(t, 20, results[1].Value, 1e-9)
		assert.Equal(t, 1, results[1].Count)
	})

	t.Run("sum and count", func(t *testing.T) {
		bySum := GroupByField(records, "cat", "v", coerce.AggSum)
		assert.InDelta(t, 40, bySum[0].Value, 1e-9)

		byCount := GroupByField(records, "cat", "v", coerce.AggCount)
		assert.InDelta(t, 2, byCount[0].Value, 1e-9)
	})

	t.Run("nested stats and raw rows", func(t *testing.T) {
		results := GroupByField(records, "cat", "v", coerce.AggSum)
		assert.Equal(t, 2, results[0].Stats.Count)
		assert.InDelta(t, 30, results[0].Stats.Max, 1e-9)
		assert.Len(t, results[0].Rows, 2)
	})

	t.Run("dirty values contribute zero", func(t *testing.T) {
		dirty := []model.Record{
			{"cat": "A", "v": "n/a"},
			{"cat": "A", "v": 10.0},
		}
		results := GroupByField(dirty, "cat", "v", coerce.AggSum)
		require.Len(t, results, 1)
		assert.InDelta(t, 10, results[0].Value, 1e-9)
		assert.Equal(t, 2, results[0].Count)
	})

	t.Run("unsupported method falls back to sum", func(t *testing.T) {
		results := GroupByField(records, "cat", "v", coerce.AggregationMethod("mode"))
		assert.InDelta(t, 40, results[0].Value, 1e-9)
	})

	t.Run("input records are not mutated", func(t *testing.T) {
		before := records[0].Clone()
		GroupByField(records, "cat", "v", coerce.AggAvg)
		assert.Equal(t, before, records[0])
	})
}
