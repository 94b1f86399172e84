package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogram(t *testing.T) {
	t.Run("eleven evenly spaced values across five bins", func(t *testing.T) {
		// 0,10,20,...,100: eleven points over [0,100] in 5 bins of width 20.
		values := make([]any, 0, 11)
		for v := 0; v <= 100; v += 10 {
			values = append(values, float64(v))
		}
		bins := Histogram(numberRecords("v", values...), "v", 5)
		require.Len(t, bins, 5)

		// Half-open bins with a closed last bin: 20 belongs to bin 1, 100
		// stays in bin 4.
		assert.Equal(t, 2, bins[0].Count) // 0, 10
		assert.Equal(t, 2, bins[1].Count) // 20, 30
		assert.Equal(t, 2, bins[2].Count) // 40, 50
		assert.Equal(t, 2, bins[3].Count) // 60, 70
		assert.Equal(t, 3, bins[4].Count) // 80, 90, 100

		total := 0
		for _, b := range bins {
			total += b.Count
		}
		assert.Equal(t, 11, total)
	})

	t.Run("bin coverage property", func(t *testing.T) {
		records := numberRecords("v", 1.0, 2.5, 3.3, 7.9, 12.0, 12.0, 45.5, 99.9, 100.0)
		for _, binCount := range []int{1, 3, 7, 10} {
			bins := Histogram(records, "v", binCount)
			total := 0
			for _, b := range bins {
				total += b.Count
			}
			assert.Equal(t, 9, total, "bins=%d", binCount)
			// The global max always lands in the last bin.
			last := bins[len(bins)-1]
			assert.Contains(t, last.Members, 100.0, "bins=%d", binCount)
		}
	})

	t.Run("identical values collapse to one bin", func(t *testing.T) {
		bins := Histogram(numberRecords("v", 5.0, 5.0, 5.0), "v", 10)
		require.Len(t, bins, 1)
		assert.Equal(t, 3, bins[0].Count)
		assert.InDelta(t, 100, bins[0].Percentage, 1e-9)
	})

	t.Run("non-numeric values are dropped", func(t *testing.T) {
		bins := Histogram(numberRecords("v", 1.0, "junk", 9.0), "v", 2)
		require.Len(t, bins, 2)
		assert.Equal(t, 1, bins[0].Count)
		assert.Equal(t, 1, bins[1].Count)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, Histogram(nil, "v", 5))
	})
}
