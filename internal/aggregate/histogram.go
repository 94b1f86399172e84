package aggregate

import (
	"fmt"

	"github.com/towerlens/towerlens/internal/model"
)

// Histogram partitions a field's finite numeric values into equal-width
// bins spanning [min,max]. Bins are half-open [low,high) except the last,
// which is closed so the maximum value is always counted. Assigning each
// value by computed bin index guarantees it lands in exactly one bin even
// when a value sits on a shared boundary.
func Histogram(records []model.Record, field string, bins int) []model.DistributionBin {
	if bins < 1 {
		bins = 10
	}

	values := numericValues(records, field)
	if len(values) == 0 {
		return nil
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	// Degenerate range: a single bin holds everything.
	if minVal == maxVal {
		members := make([]float64, len(values))
		copy(members, values)
		return []model.DistributionBin{{
			Label:      fmt.Sprintf("%.2f-%.2f", minVal, maxVal),
			Count:      len(values),
			LowEdge:    minVal,
			HighEdge:   maxVal,
			Percentage: 100,
			Members:    members,
		}}
	}

	width := (maxVal - minVal) / float64(bins)
	result := make([]model.DistributionBin, bins)
	for i := range result {
		low := minVal + float64(i)*width
		high := low + width
		if i == bins-1 {
			high = maxVal
		}
		result[i] = model.DistributionBin{
			Label:    fmt.Sprintf("%.2f-%.2f", low, high),
			LowEdge:  low,
			HighEdge: high,
		}
	}

	for _, v := range values {
		idx := int((v - minVal) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		result[idx].Count++
		result[idx].Members = append(result[idx].Members, v)
	}

	total := float64(len(values))
	for i := range result {
		result[i].Percentage = 100 * float64(result[i].Count) / total
	}
	return result
}
