package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/towerlens/towerlens/internal/coerce"
	"github.com/towerlens/towerlens/internal/model"
)

// Interval selects the time-bucket granularity of a time series.
type Interval string

// Supported bucket intervals.
const (
	IntervalDay   Interval = "day"
	IntervalWeek  Interval = "week"
	IntervalMonth Interval = "month"
	IntervalYear  Interval = "year"
)

// weekStart returns the Sunday-aligned start of the week containing t.
func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// weekKey derives the canonical week bucket key from a Sunday-aligned week
// start. Week numbers are zero-padded so keys sort chronologically.
func weekKey(sunday time.Time) string {
	week := (sunday.YearDay()-1)/7 + 1
	return fmt.Sprintf("%d-W%02d", sunday.Year(), week)
}

// bucketKey maps a date to its canonical bucket key and human display label
// for the given interval. Canonical keys sort lexicographically in
// chronological order; display labels are for presentation only. An
// unrecognized interval falls back to day buckets.
func bucketKey(t time.Time, interval Interval) (key, label string) {
	switch interval {
	case IntervalWeek:
		sunday := weekStart(t)
		return weekKey(sunday), sunday.Format("2006-01-02")
	case IntervalMonth:
		return t.Format("2006-01"), t.Format("Jan 2006")
	case IntervalYear:
		return t.Format("2006"), t.Format("2006")
	default:
		key = t.Format("2006-01-02")
		return key, key
	}
}

// TimeSeries groups records into time buckets by dateField and aggregates
// valueField within each bucket. Rows whose date fails to parse are dropped.
// Results are always sorted ascending by canonical bucket key, independent
// of display formatting.
func TimeSeries(records []model.Record, dateField, valueField string, interval Interval, method coerce.AggregationMethod) []model.TimeSeriesPoint {
	type bucket struct {
		label  string
		values []float64
	}
	buckets := make(map[string]*bucket)

	for _, r := range records {
		t, ok := coerce.ParseDate(r[dateField])
		if !ok {
			continue
		}
		key, label := bucketKey(t, interval)
		b, exists := buckets[key]
		if !exists {
			b = &bucket{label: label}
			buckets[key] = b
		}
		b.values = append(b.values, coerce.ToNumber(r[valueField]))
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	points := make([]model.TimeSeriesPoint, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		points = append(points, model.TimeSeriesPoint{
			PeriodKey:    key,
			DisplayLabel: b.label,
			Value:        coerce.Aggregate(b.values, method),
			Count:        len(b.values),
		})
	}
	return points
}
