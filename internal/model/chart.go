package model

// ChartPoint is a single x/y point in a line or bar series. Extra carries
// the source record's remaining fields for tooltips and drill-down.
type ChartPoint struct {
	X            any
	Extra        Record
	Y            float64
	Count        int
	IsAggregated bool
}

// PieSlice is a single labeled slice of a pie series.
type PieSlice struct {
	Label        string
	Color        string
	Extra        Record
	Value        float64
	Count        int
	IsAggregated bool
}

// FieldStats holds summary statistics for a single numeric field.
type FieldStats struct {
	Count  int
	Sum    float64
	Avg    float64
	Min    float64
	Max    float64
	Median float64
	StdDev float64
	Q1     float64
	Q3     float64
}

// GroupResult is one partition produced by a group-by transform.
type GroupResult struct {
	Group string
	Rows  []Record
	Stats FieldStats
	Value float64
	Count int
}

// FrequencyEntry is one distinct value in a frequency distribution.
type FrequencyEntry struct {
	Value      string
	Count      int
	Percentage float64
}

// TimeSeriesPoint is one time bucket in an aggregated series.
//
// PeriodKey is canonical and sorts lexicographically in chronological order
// for its granularity: months are zero-padded ("2025-03"), weeks use a
// padded week-of-year scheme ("2025-W09").
type TimeSeriesPoint struct {
	PeriodKey    string
	DisplayLabel string
	Value        float64
	Count        int
	Forecast     bool
}

// DistributionBin is one equal-width interval of a histogram. Bins partition
// [min,max]; every finite input value belongs to exactly one bin.
type DistributionBin struct {
	Label      string
	Members    []float64
	Count      int
	LowEdge    float64
	HighEdge   float64
	Percentage float64
}

// GeoPoint is a weighted map marker derived from record coordinates.
type GeoPoint struct {
	Label     string
	Latitude  float64
	Longitude float64
	Weight    float64
}
