package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/towerlens/towerlens/internal/aggregate"
	"github.com/towerlens/towerlens/internal/chart"
	"github.com/towerlens/towerlens/internal/cli"
	"github.com/towerlens/towerlens/internal/coerce"
	"github.com/towerlens/towerlens/internal/common"
)

func chartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Transform portfolio data into chart series",
	}

	cmd.AddCommand(chartXYCmd())
	cmd.AddCommand(chartPieCmd())
	cmd.AddCommand(chartTimeCmd())
	cmd.AddCommand(chartGeoCmd())
	cmd.AddCommand(chartCorrelateCmd())

	return cmd
}

func chartOptions(cmd *cobra.Command) chart.Options {
	sortBy, _ := cmd.Flags().GetString("sort")
	direction, _ := cmd.Flags().GetString("direction")
	limit, _ := cmd.Flags().GetInt("limit")
	groupOthers, _ := cmd.Flags().GetBool("group-others")
	dateFormat, _ := cmd.Flags().GetString("date-format")

	return chart.Options{
		SortBy:        chart.SortField(sortBy),
		SortDirection: chart.SortDirection(direction),
		DateFormat:    dateFormat,
		Limit:         limit,
		GroupOthers:   groupOthers,
	}
}

func addChartFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", "tower", "data type: tower, contract, landlord, payment")
	cmd.Flags().String("sort", "", "sort by: value, label, date")
	cmd.Flags().String("direction", "asc", "sort direction: asc, desc")
	cmd.Flags().Int("limit", 0, "keep only the top N points")
	cmd.Flags().Bool("group-others", false, "fold points beyond the limit into an Others point")
	cmd.Flags().String("date-format", "", "format date labels (tokens: YYYY, MM, DD, M, D)")
}

func chartXYCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xy",
		Short: "Build an XY series from two fields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			dataType, _ := cmd.Flags().GetString("type")
			xField, _ := cmd.Flags().GetString("x")
			yField, _ := cmd.Flags().GetString("y")

			records, err := loadRecords(ctx, store, dataType)
			if err != nil {
				return err
			}

			points := chart.ToXYSeries(records, xField, yField, chartOptions(cmd))
			var b strings.Builder
			for _, p := range points {
				fmt.Fprintf(&b, "%-24v %12.2f\n", p.X, p.Y)
			}
			fmt.Println(cli.RenderBox(fmt.Sprintf("%s %s by %s", cli.ChartIcon, yField, xField), b.String()))
			return nil
		},
	}

	addChartFlags(cmd)
	cmd.Flags().StringP("x", "x", "", "field for the x axis (required)")
	cmd.Flags().StringP("y", "y", "", "field for the y axis (required)")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")

	return cmd
}

func chartPieCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pie",
		Short: "Build a pie series from a label and a value field",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			dataType, _ := cmd.Flags().GetString("type")
			labelField, _ := cmd.Flags().GetString("label")
			valueField, _ := cmd.Flags().GetString("value")

			records, err := loadRecords(ctx, store, dataType)
			if err != nil {
				return err
			}

			slices := chart.ToPieSeries(records, labelField, valueField, chartOptions(cmd))
			var total float64
			for _, s := range slices {
				total += s.Value
			}

			var b strings.Builder
			for _, s := range slices {
				pct := 0.0
				if total > 0 {
					pct = s.Value / total * 100
				}
				fmt.Fprintf(&b, "%-24s %12.2f  %5.1f%%\n", s.Label, s.Value, pct)
			}
			fmt.Println(cli.RenderBox(fmt.Sprintf("%s %s by %s", cli.ChartIcon, valueField, labelField), b.String()))
			return nil
		},
	}

	addChartFlags(cmd)
	cmd.Flags().String("label", "", "field providing slice labels (required)")
	cmd.Flags().String("value", "", "field providing slice values (required)")
	_ = cmd.MarkFlagRequired("label")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func chartTimeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "time",
		Short: "Bucket a value field over time, optionally with a forecast",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			dataType, _ := cmd.Flags().GetString("type")
			dateField, _ := cmd.Flags().GetString("date-field")
			valueField, _ := cmd.Flags().GetString("value")
			intervalStr, _ := cmd.Flags().GetString("interval")
			method, _ := cmd.Flags().GetString("aggregate")
			forecastPeriods, _ := cmd.Flags().GetInt("forecast")
			forecastMethod, _ := cmd.Flags().GetString("forecast-method")

			interval, err := parseInterval(intervalStr)
			if err != nil {
				return err
			}

			records, err := loadRecords(ctx, store, dataType)
			if err != nil {
				return err
			}

			series := aggregate.TimeSeries(records, dateField, valueField,
				interval, coerce.AggregationMethod(method))
			if forecastPeriods > 0 {
				series = append(series, aggregate.Forecast(series, forecastPeriods,
					aggregate.ForecastMethod(forecastMethod))...)
			}

			var b strings.Builder
			for _, p := range series {
				marker := ""
				if p.Forecast {
					marker = "  (forecast)"
				}
				fmt.Fprintf(&b, "%-12s %12.2f%s\n", p.DisplayLabel, p.Value, marker)
			}
			fmt.Println(cli.RenderBox(fmt.Sprintf("%s %s of %s per %s", cli.ChartIcon, method, valueField, intervalStr), b.String()))
			return nil
		},
	}

	cmd.Flags().StringP("type", "t", "payment", "data type: tower, contract, landlord, payment")
	cmd.Flags().String("date-field", "payment_date", "field carrying the date")
	cmd.Flags().String("value", "amount", "field to aggregate")
	cmd.Flags().String("interval", "month", "bucket size: day, week, month, year")
	cmd.Flags().String("aggregate", "sum", "aggregation: sum, avg, min, max, count")
	cmd.Flags().Int("forecast", 0, "forecast N future periods")
	cmd.Flags().String("forecast-method", "linear", "forecast method: linear, average, last")

	return cmd
}

func chartGeoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geo",
		Short: "List tower map points",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			weightField, _ := cmd.Flags().GetString("weight")

			records, err := loadRecords(ctx, store, "tower")
			if err != nil {
				return err
			}

			points := chart.ToGeoPoints(records, "latitude", "longitude", weightField, "name")
			var b strings.Builder
			for _, p := range points {
				fmt.Fprintf(&b, "%-24s %10.6f %11.6f  %.1f\n", p.Label, p.Latitude, p.Longitude, p.Weight)
			}
			fmt.Println(cli.RenderBox(cli.TowerIcon+" Tower locations", b.String()))
			return nil
		},
	}

	cmd.Flags().String("weight", "height", "field providing point weight")

	return cmd
}

func chartCorrelateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "correlate <field-a> <field-b>",
		Short: "Correlate two numeric fields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			dataType, _ := cmd.Flags().GetString("type")
			records, err := loadRecords(ctx, store, dataType)
			if err != nil {
				return err
			}

			r := aggregate.Correlation(records, args[0], args[1])
			fmt.Println(cli.FormatInfo(fmt.Sprintf("Pearson correlation of %s and %s: %.4f", args[0], args[1], r)))
			return nil
		},
	}

	cmd.Flags().StringP("type", "t", "tower", "data type: tower, contract, landlord, payment")

	return cmd
}

func parseInterval(s string) (aggregate.Interval, error) {
	switch s {
	case "day":
		return aggregate.IntervalDay, nil
	case "week":
		return aggregate.IntervalWeek, nil
	case "month":
		return aggregate.IntervalMonth, nil
	case "year":
		return aggregate.IntervalYear, nil
	default:
		return "", fmt.Errorf("%w: invalid interval %q", common.ErrInvalidConfig, s)
	}
}
