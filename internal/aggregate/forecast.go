package aggregate

import (
	"strconv"
	"strings"
	"time"

	"github.com/towerlens/towerlens/internal/model"
)

// ForecastMethod selects how future values are projected.
type ForecastMethod string

// Supported forecast methods.
const (
	// ForecastLinear projects an ordinary least-squares trend line forward.
	ForecastLinear ForecastMethod = "linear"
	// ForecastAverage repeats the mean of the last up-to-3 observations.
	ForecastAverage ForecastMethod = "average"
	// ForecastLast repeats the final observed value.
	ForecastLast ForecastMethod = "last"
)

// keyGranularity infers the bucket interval from the shape of a canonical
// period key: "2006", "2006-01", "2006-01-02", or "2006-W02".
func keyGranularity(key string) Interval {
	switch {
	case strings.Contains(key, "-W"):
		return IntervalWeek
	case len(key) == 4:
		return IntervalYear
	case len(key) == 7:
		return IntervalMonth
	default:
		return IntervalDay
	}
}

// keyDate converts a canonical period key back to a representative date
// (the bucket start). It reports whether the key parsed.
func keyDate(key string, interval Interval) (time.Time, bool) {
	switch interval {
	case IntervalYear:
		t, err := time.Parse("2006", key)
		return t, err == nil
	case IntervalMonth:
		t, err := time.Parse("2006-01", key)
		return t, err == nil
	case IntervalWeek:
		parts := strings.SplitN(key, "-W", 2)
		if len(parts) != 2 {
			return time.Time{}, false
		}
		year, err := strconv.Atoi(parts[0])
		if err != nil {
			return time.Time{}, false
		}
		week, err := strconv.Atoi(parts[1])
		if err != nil || week < 1 {
			return time.Time{}, false
		}
		// Week n covers year-days 7(n-1)+1 through 7n; the key names the one
		// Sunday inside that span, so advance from the span's first day to
		// its Sunday rather than snapping back with weekStart.
		jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		start := jan1.AddDate(0, 0, (week-1)*7)
		return start.AddDate(0, 0, (7-int(start.Weekday()))%7), true
	default:
		t, err := time.Parse("2006-01-02", key)
		return t, err == nil
	}
}

// nextBucket advances a bucket start date by one interval.
func nextBucket(t time.Time, interval Interval) time.Time {
	switch interval {
	case IntervalYear:
		return t.AddDate(1, 0, 0)
	case IntervalMonth:
		return t.AddDate(0, 1, 0)
	case IntervalWeek:
		return t.AddDate(0, 0, 7)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// Forecast projects a time-bucketed series forward and returns the new
// points, each flagged as a forecast. The bucket granularity is inferred
// from the final observed period key, and forecast dates are produced by
// repeatedly applying that granularity's increment. An unrecognized method
// behaves like ForecastLast.
func Forecast(series []model.TimeSeriesPoint, periods int, method ForecastMethod) []model.TimeSeriesPoint {
	if len(series) == 0 || periods <= 0 {
		return nil
	}

	last := series[len(series)-1]
	interval := keyGranularity(last.PeriodKey)
	cursor, ok := keyDate(last.PeriodKey, interval)
	if !ok {
		return nil
	}

	n := len(series)
	var slope, intercept float64
	switch method {
	case ForecastLinear:
		slope, intercept = fitLine(series)
	case ForecastAverage:
		window := series
		if n > 3 {
			window = series[n-3:]
		}
		var sum float64
		for _, p := range window {
			sum += p.Value
		}
		intercept = sum / float64(len(window))
	default:
		intercept = last.Value
	}

	points := make([]model.TimeSeriesPoint, 0, periods)
	for i := 1; i <= periods; i++ {
		cursor = nextBucket(cursor, interval)
		key, label := bucketKey(cursor, interval)

		value := intercept
		if method == ForecastLinear {
			value = intercept + slope*float64(n-1+i)
		}

		points = append(points, model.TimeSeriesPoint{
			PeriodKey:    key,
			DisplayLabel: label,
			Value:        value,
			Forecast:     true,
		})
	}
	return points
}

// fitLine computes an ordinary least-squares fit of value against the
// sequential bucket index 0..n-1. A single observation degenerates to a
// flat line through it.
func fitLine(series []model.TimeSeriesPoint) (slope, intercept float64) {
	n := float64(len(series))
	if len(series) == 1 {
		return 0, series[0].Value
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, p := range series {
		x := float64(i)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
