package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towerlens/towerlens/internal/coerce"
	"github.com/towerlens/towerlens/internal/model"
)

func monthlySeries(values ...float64) []model.TimeSeriesPoint {
	points := make([]model.TimeSeriesPoint, len(values))
	months := []string{"2023-01", "2023-02", "2023-03", "2023-04", "2023-05"}
	for i, v := range values {
		points[i] = model.TimeSeriesPoint{PeriodKey: months[i], Value: v, Count: 1}
	}
	return points
}

func TestForecast(t *testing.T) {
	t.Run("linear continues the trend", func(t *testing.T) {
		series := monthlySeries(100, 120, 140)
		forecast := Forecast(series, 2, ForecastLinear)
		require.Len(t, forecast, 2)

		assert.Equal(t, "2023-04", forecast[0].PeriodKey)
		assert.Equal(t, "2023-05", forecast[1].PeriodKey)
		assert.True(t, forecast[0].Forecast)
		assert.True(t, forecast[1].Forecast)
		assert.Greater(t, forecast[0].Value, 140.0)
		assert.Greater(t, forecast[1].Value, forecast[0].Value)
		assert.InDelta(t, 160, forecast[0].Value, 1e-9)
		assert.InDelta(t, 180, forecast[1].Value, 1e-9)
	})

	t.Run("average uses the last three observations", func(t *testing.T) {
		series := monthlySeries(10, 10, 100, 110, 120)
		forecast := Forecast(series, 3, ForecastAverage)
		require.Len(t, forecast, 3)
		for _, p := range forecast {
			assert.InDelta(t, 110, p.Value, 1e-9)
		}
		assert.Equal(t, "2023-06", forecast[0].PeriodKey)
		assert.Equal(t, "Jun 2023", forecast[0].DisplayLabel)
	})

	t.Run("last repeats the final value", func(t *testing.T) {
		series := monthlySeries(100, 90, 80)
		forecast := Forecast(series, 2, ForecastLast)
		require.Len(t, forecast, 2)
		assert.InDelta(t, 80, forecast[0].Value, 1e-9)
		assert.InDelta(t, 80, forecast[1].Value, 1e-9)
	})

	t.Run("unknown method behaves like last", func(t *testing.T) {
		series := monthlySeries(50, 60)
		forecast := Forecast(series, 1, ForecastMethod("arima"))
		require.Len(t, forecast, 1)
		assert.InDelta(t, 60, forecast[0].Value, 1e-9)
	})

	t.Run("year and day granularity inferred from key shape", func(t *testing.T) {
		years := []model.TimeSeriesPoint{
			{PeriodKey: "2021", Value: 1},
			{PeriodKey: "2022", Value: 2},
		}
		forecast := Forecast(years, 1, ForecastLinear)
		require.Len(t, forecast, 1)
		assert.Equal(t, "2023", forecast[0].PeriodKey)

		days := []model.TimeSeriesPoint{
			{PeriodKey: "2023-12-30", Value: 1},
			{PeriodKey: "2023-12-31", Value: 2},
		}
		forecast = Forecast(days, 2, ForecastLast)
		require.Len(t, forecast, 2)
		assert.Equal(t, "2024-01-01", forecast[0].PeriodKey)
		assert.Equal(t, "2024-01-02", forecast[1].PeriodKey)
	})

	t.Run("week granularity advances by seven days", func(t *testing.T) {
		weeks := []model.TimeSeriesPoint{
			{PeriodKey: "2023-W01", Value: 5},
			{PeriodKey: "2023-W02", Value: 6},
		}
		forecast := Forecast(weeks, 2, ForecastLast)
		require.Len(t, forecast, 2)
		assert.Equal(t, "2023-W03", forecast[0].PeriodKey)
		assert.Equal(t, "2023-W04", forecast[1].PeriodKey)
	})

	t.Run("week forecast advances past the last bucket when Jan 1 is mid-week", func(t *testing.T) {
		// 2025 opens on a Wednesday, so week spans do not start on Sundays.
		records := []model.Record{
			{"date": "2025-01-05", "amount": 5.0},
			{"date": "2025-01-12", "amount": 6.0},
		}
		series := TimeSeries(records, "date", "amount", IntervalWeek, coerce.AggSum)
		require.Len(t, series, 2)
		require.Equal(t, "2025-W02", series[1].PeriodKey)

		forecast := Forecast(series, 2, ForecastLast)
		require.Len(t, forecast, 2)
		assert.Equal(t, "2025-W03", forecast[0].PeriodKey)
		assert.Equal(t, "2025-W04", forecast[1].PeriodKey)
	})

	t.Run("empty series", func(t *testing.T) {
		assert.Nil(t, Forecast(nil, 3, ForecastLinear))
		assert.Nil(t, Forecast(monthlySeries(1), 0, ForecastLinear))
	})
}
