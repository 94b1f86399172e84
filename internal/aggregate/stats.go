// Package aggregate computes statistics, distributions, groupings, time
// series, correlations, and forecasts over in-memory record collections.
// All functions are pure: inputs are never mutated and malformed data is
// coerced or dropped rather than surfaced as an error.
package aggregate

import (
	"fmt"
	"math"
	"sort"

	"github.com/towerlens/towerlens/internal/coerce"
	"github.com/towerlens/towerlens/internal/model"
)

// numericValues extracts the finite numeric values of a field, dropping
// rows whose value does not parse.
func numericValues(records []model.Record, field string) []float64 {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		if v, ok := coerce.AsNumber(r[field]); ok {
			values = append(values, v)
		}
	}
	return values
}

// formatValue renders a raw field value as a grouping key. Missing values
// get their own "null" bucket.
func formatValue(v any) string {
	if v == nil {
		return "null"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Stats computes summary statistics for a numeric field. Rows whose value
// does not parse are dropped; an empty filtered set yields the zero value.
//
// Quartiles use nearest-rank indexing (sorted[n/4] and sorted[3n/4]) and the
// standard deviation is the population form (divide by n).
func Stats(records []model.Record, field string) model.FieldStats {
	values := numericValues(records, field)
	if len(values) == 0 {
		return model.FieldStats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	avg := sum / float64(n)

	var sqDiff float64
	for _, v := range sorted {
		d := v - avg
		sqDiff += d * d
	}

	mid := n / 2
	var median float64
	if n%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	return model.FieldStats{
		Count:  n,
		Sum:    sum,
		Avg:    avg,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Median: median,
		StdDev: math.Sqrt(sqDiff / float64(n)),
		Q1:     sorted[n/4],
		Q3:     sorted[3*n/4],
	}
}

// FrequencyDistribution counts occurrences of each distinct raw value of a
// field. Entries keep first-seen order; nil values form their own bucket.
func FrequencyDistribution(records []model.Record, field string) []model.FrequencyEntry {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, r := range records {
		key := formatValue(r[field])
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	total := len(records)
	entries := make([]model.FrequencyEntry, 0, len(order))
	for _, key := range order {
		entry := model.FrequencyEntry{Value: key, Count: counts[key]}
		if total > 0 {
			entry.Percentage = 100 * float64(entry.Count) / float64(total)
		}
		entries = append(entries, entry)
	}
	return entries
}
