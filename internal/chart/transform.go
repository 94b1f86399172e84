package chart

import (
	"fmt"
	"sort"
	"time"

	"github.com/towerlens/towerlens/internal/coerce"
	"github.com/towerlens/towerlens/internal/model"
)

// OthersLabel names the synthetic entry that absorbs points folded past a
// display limit.
const OthersLabel = "Others"

// xyPoint pairs an output point with its retained chronological sort key,
// so date sorting works on real dates even after the display label has been
// reformatted.
type xyPoint struct {
	dateKey time.Time
	point   model.ChartPoint
	hasDate bool
}

// ToXYSeries maps records to x/y chart points. The x value is taken raw,
// the y value is coerced to a number (0 on dirty data), and the rest of the
// record rides along for tooltips. When a DateFormat is given and the first
// x is date-like, every x is reformatted for display while sorting still
// uses the parsed date.
func ToXYSeries(records []model.Record, xField, yField string, opts Options) []model.ChartPoint {
	if len(records) == 0 {
		return nil
	}

	points := make([]xyPoint, 0, len(records))
	formatDates := opts.DateFormat != "" && coerce.IsDateLike(records[0][xField])

	for _, r := range records {
		p := xyPoint{point: model.ChartPoint{
			X:     r[xField],
			Y:     coerce.ToNumber(r[yField]),
			Extra: r.Clone(),
		}}
		if d, ok := coerce.ParseDate(r[xField]); ok {
			p.dateKey = d
			p.hasDate = true
		}
		if formatDates && p.hasDate {
			p.point.X = coerce.FormatDate(p.dateKey, opts.DateFormat)
		}
		points = append(points, p)
	}

	sortXY(points, opts)

	out := make([]model.ChartPoint, len(points))
	for i, p := range points {
		out[i] = p.point
	}
	return foldXY(out, opts)
}

func sortXY(points []xyPoint, opts Options) {
	if opts.SortBy == SortNone {
		return
	}
	desc := opts.descending()

	sort.SliceStable(points, func(i, j int) bool {
		var less bool
		switch {
		case opts.SortBy == SortValue:
			less = points[i].point.Y < points[j].point.Y
		case opts.SortBy == SortDate && points[i].hasDate && points[j].hasDate:
			less = points[i].dateKey.Before(points[j].dateKey)
		default:
			less = labelOf(points[i].point.X) < labelOf(points[j].point.X)
		}
		if desc {
			return !less && !equalKeys(points[i], points[j], opts.SortBy)
		}
		return less
	})
}

func equalKeys(a, b xyPoint, by SortField) bool {
	switch {
	case by == SortValue:
		return a.point.Y == b.point.Y
	case by == SortDate && a.hasDate && b.hasDate:
		return a.dateKey.Equal(b.dateKey)
	default:
		return labelOf(a.point.X) == labelOf(b.point.X)
	}
}

// foldXY applies the display limit, optionally folding the overflow into a
// single aggregated trailing point whose y is the sum of the folded values.
func foldXY(points []model.ChartPoint, opts Options) []model.ChartPoint {
	if opts.Limit <= 0 || opts.Limit >= len(points) {
		return points
	}
	if !opts.GroupOthers {
		return points[:opts.Limit]
	}

	kept := points[:opts.Limit]
	folded := points[opts.Limit:]

	var sum float64
	for _, p := range folded {
		sum += p.Y
	}
	return append(kept, model.ChartPoint{
		X:            OthersLabel,
		Y:            sum,
		IsAggregated: true,
		Count:        len(folded),
	})
}

// ToPieSeries maps records to labeled slices. A missing or empty label
// becomes "Unnamed". Sorting, limiting, and Others folding follow the same
// rules as the XY transform.
func ToPieSeries(records []model.Record, labelField, valueField string, opts Options) []model.PieSlice {
	if len(records) == 0 {
		return nil
	}

	slices := make([]model.PieSlice, 0, len(records))
	for _, r := range records {
		label := labelOf(r[labelField])
		if label == "" || label == "null" {
			label = "Unnamed"
		}
		slices = append(slices, model.PieSlice{
			Label: label,
			Value: coerce.ToNumber(r[valueField]),
			Extra: r.Clone(),
		})
	}

	if opts.SortBy != SortNone {
		desc := opts.descending()
		sort.SliceStable(slices, func(i, j int) bool {
			var less bool
			if opts.SortBy == SortValue {
				less = slices[i].Value < slices[j].Value
				if desc {
					return slices[i].Value > slices[j].Value
				}
				return less
			}
			if desc {
				return slices[i].Label > slices[j].Label
			}
			return slices[i].Label < slices[j].Label
		})
	}

	if opts.Limit <= 0 || opts.Limit >= len(slices) {
		return slices
	}
	if !opts.GroupOthers {
		return slices[:opts.Limit]
	}

	kept := slices[:opts.Limit]
	folded := slices[opts.Limit:]
	var sum float64
	for _, s := range folded {
		sum += s.Value
	}
	return append(kept, model.PieSlice{
		Label:        OthersLabel,
		Value:        sum,
		IsAggregated: true,
		Count:        len(folded),
	})
}

// ToGeoPoints extracts weighted map markers from records. Rows without
// finite coordinates in range are skipped; an empty weight field gives every
// marker weight 1.
func ToGeoPoints(records []model.Record, latField, lonField, weightField, labelField string) []model.GeoPoint {
	points := make([]model.GeoPoint, 0, len(records))
	for _, r := range records {
		lat, okLat := coerce.AsNumber(r[latField])
		lon, okLon := coerce.AsNumber(r[lonField])
		if !okLat || !okLon || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			continue
		}

		weight := 1.0
		if weightField != "" {
			weight = coerce.ToNumber(r[weightField])
		}
		points = append(points, model.GeoPoint{
			Latitude:  lat,
			Longitude: lon,
			Weight:    weight,
			Label:     labelOf(r[labelField]),
		})
	}
	return points
}

// labelOf stringifies an arbitrary field value for use as a label or sort
// key. nil maps to "null" so missing labels are visible downstream.
func labelOf(v any) string {
	switch s := v.(type) {
	case nil:
		return "null"
	case string:
		return s
	case time.Time:
		return s.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", v)
	}
}
