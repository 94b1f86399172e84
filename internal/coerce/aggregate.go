package coerce

// AggregationMethod selects how a group of values is summarized.
type AggregationMethod string

// Supported aggregation methods.
const (
	AggSum   AggregationMethod = "sum"
	AggAvg   AggregationMethod = "avg"
	AggMin   AggregationMethod = "min"
	AggMax   AggregationMethod = "max"
	AggCount AggregationMethod = "count"
)

// Aggregate summarizes a slice of values with the given method. Every
// grouping transform routes through this single function so that empty
// groups and unsupported methods behave identically everywhere: an empty
// slice yields 0, and an unrecognized method falls back to sum.
func Aggregate(values []float64, method AggregationMethod) float64 {
	if method == AggCount {
		return float64(len(values))
	}
	if len(values) == 0 {
		return 0
	}

	switch method {
	case AggAvg:
		return sum(values) / float64(len(values))
	case AggMin:
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case AggMax:
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m
	default:
		// Includes AggSum and any unrecognized method.
		return sum(values)
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
