package coerce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		input any
		name  string
		want  float64
	}{
		{name: "float passes through", input: 42.5, want: 42.5},
		{name: "int converts", input: 7, want: 7},
		{name: "clean string", input: "123.45", want: 123.45},
		{name: "currency string", input: "$1,234.56", want: 1234.56},
		{name: "string with units", input: "45m", want: 45},
		{name: "negative string", input: "-12.5", want: -12.5},
		{name: "garbage string", input: "n/a", want: 0},
		{name: "empty string", input: "", want: 0},
		{name: "nil", input: nil, want: 0},
		{name: "bool true", input: true, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ToNumber(tt.input), 1e-9)
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Run("native time", func(t *testing.T) {
		now := time.Now()
		parsed, ok := ParseDate(now)
		assert.True(t, ok)
		assert.Equal(t, now, parsed)
	})

	t.Run("iso string", func(t *testing.T) {
		parsed, ok := ParseDate("2025-03-15")
		assert.True(t, ok)
		assert.Equal(t, 2025, parsed.Year())
		assert.Equal(t, time.March, parsed.Month())
		assert.Equal(t, 15, parsed.Day())
	})

	t.Run("us style string", func(t *testing.T) {
		parsed, ok := ParseDate("03/15/2025")
		assert.True(t, ok)
		assert.Equal(t, time.March, parsed.Month())
	})

	t.Run("rejects numbers and plain strings", func(t *testing.T) {
		_, ok := ParseDate(12345)
		assert.False(t, ok)
		_, ok = ParseDate("not a date")
		assert.False(t, ok)
		_, ok = ParseDate(nil)
		assert.False(t, ok)
	})
}

func TestIsDateLike(t *testing.T) {
	assert.True(t, IsDateLike("2024-01-31"))
	assert.True(t, IsDateLike(time.Now()))
	assert.False(t, IsDateLike(42))
	assert.False(t, IsDateLike("hello"))
	assert.False(t, IsDateLike(nil))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-03-05", FormatDate(d, "YYYY-MM-DD"))
	assert.Equal(t, "3/5/2025", FormatDate(d, "M/D/YYYY"))
	assert.Equal(t, "03/05/2025", FormatDate(d, "MM/DD/YYYY"))
}

func TestAggregate(t *testing.T) {
	values := []float64{10, 30, 20}

	assert.InDelta(t, 60, Aggregate(values, AggSum), 1e-9)
	assert.InDelta(t, 20, Aggregate(values, AggAvg), 1e-9)
	assert.InDelta(t, 10, Aggregate(values, AggMin), 1e-9)
	assert.InDelta(t, 30, Aggregate(values, AggMax), 1e-9)
	assert.InDelta(t, 3, Aggregate(values, AggCount), 1e-9)

	t.Run("empty group", func(t *testing.T) {
		assert.Zero(t, Aggregate(nil, AggAvg))
		assert.Zero(t, Aggregate(nil, AggMin))
		assert.Zero(t, Aggregate(nil, AggCount))
	})

	t.Run("unknown method falls back to sum", func(t *testing.T) {
		assert.InDelta(t, 60, Aggregate(values, AggregationMethod("median")), 1e-9)
	})
}
