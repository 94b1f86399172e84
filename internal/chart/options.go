// Package chart turns record collections into chart-ready series and
// memoizes expensive transforms behind a fingerprinted TTL cache.
package chart

import "github.com/towerlens/towerlens/internal/coerce"

// SortField selects what a series is ordered by.
type SortField string

// Supported sort fields.
const (
	SortNone  SortField = ""
	SortValue SortField = "value"
	SortLabel SortField = "label"
	SortDate  SortField = "date"
)

// SortDirection selects ascending or descending order.
type SortDirection string

// Supported sort directions. Ascending is the default.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Options is the full configuration surface a consumer may pass to a series
// transform. The zero value applies no sorting, formatting, or truncation.
type Options struct {
	SortBy        SortField
	SortDirection SortDirection
	DateFormat    string
	Aggregation   coerce.AggregationMethod
	Limit         int
	GroupOthers   bool
}

// descending reports whether the options request descending order.
func (o Options) descending() bool {
	return o.SortDirection == SortDesc
}
