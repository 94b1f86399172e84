package aggregate

import (
	"github.com/towerlens/towerlens/internal/coerce"
	"github.com/towerlens/towerlens/internal/model"
)

// GroupByField partitions records by the stringified value of groupField and
// summarizes valueField within each partition. Values are coerced with
// ToNumber, so dirty rows contribute 0 instead of dropping the partition.
// Each result carries the partition size, the raw rows, and nested stats.
// Results keep the first-seen order of group keys.
func GroupByField(records []model.Record, groupField, valueField string, method coerce.AggregationMethod) []model.GroupResult {
	groups := make(map[string][]model.Record)
	order := make([]string, 0)

	for _, r := range records {
		key := formatValue(r[groupField])
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	results := make([]model.GroupResult, 0, len(order))
	for _, key := range order {
		rows := groups[key]
		values := make([]float64, len(rows))
		for i, r := range rows {
			values[i] = coerce.ToNumber(r[valueField])
		}

		results = append(results, model.GroupResult{
			Group: key,
			Value: coerce.Aggregate(values, method),
			Count: len(rows),
			Rows:  rows,
			Stats: Stats(rows, valueField),
		})
	}
	return results
}
