package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/towerlens/towerlens/internal/aggregate"
	"github.com/towerlens/towerlens/internal/cli"
	"github.com/towerlens/towerlens/internal/common"
	"github.com/towerlens/towerlens/internal/model"
	"github.com/towerlens/towerlens/internal/service"
	"github.com/towerlens/towerlens/internal/storage"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show portfolio statistics",
		Long: `Show portfolio counts, or descriptive statistics for a field.

With --field, prints count, sum, mean, median, quartiles, and a histogram for
a numeric field, or a frequency table for a categorical one.`,
		RunE: runStats,
	}

	cmd.Flags().StringP("type", "t", "tower", "data type: tower, contract, landlord, payment")
	cmd.Flags().StringP("field", "f", "", "field to describe")
	cmd.Flags().Int("bins", 10, "histogram bin count")
	cmd.Flags().Bool("freq", false, "show a frequency table instead of numeric stats")

	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	field, _ := cmd.Flags().GetString("field")
	if field == "" {
		return printSummary(ctx, store)
	}

	dataType, _ := cmd.Flags().GetString("type")
	records, err := loadRecords(ctx, store, dataType)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return common.ErrNoPortfolioData
	}

	if freq, _ := cmd.Flags().GetBool("freq"); freq {
		printFrequency(field, aggregate.FrequencyDistribution(records, field))
		return nil
	}

	stats := aggregate.Stats(records, field)
	content := fmt.Sprintf(`Count: %d
Sum: %.2f
Mean: %.2f
Median: %.2f
Std dev: %.2f
Min: %.2f  Q1: %.2f  Q3: %.2f  Max: %.2f`,
		stats.Count, stats.Sum, stats.Avg, stats.Median, stats.StdDev,
		stats.Min, stats.Q1, stats.Q3, stats.Max)
	fmt.Println(cli.RenderBox(fmt.Sprintf("%s %s.%s", cli.ChartIcon, dataType, field), content))

	bins, _ := cmd.Flags().GetInt("bins")
	printHistogram(aggregate.Histogram(records, field, bins))

	return nil
}

func printSummary(ctx context.Context, store *storage.SQLiteStorage) error {
	summary, err := store.PortfolioSummary(ctx)
	if err != nil {
		return err
	}

	timeframe := "no payments"
	if summary.FirstPayment != nil && summary.LastPayment != nil {
		timeframe = fmt.Sprintf("%s to %s",
			summary.FirstPayment.Format("2006-01-02"),
			summary.LastPayment.Format("2006-01-02"))
	}

	content := fmt.Sprintf(`Towers: %d
Contracts: %d
Landlords: %d
Payments: %d (%s)`,
		summary.TowerCount, summary.ContractCount,
		summary.LandlordCount, summary.PaymentCount, timeframe)
	fmt.Println(cli.RenderBox(cli.TowerIcon+" Portfolio", content))

	return nil
}

func printFrequency(field string, entries []model.FrequencyEntry) {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%-24s %6d  %5.1f%%\n", e.Value, e.Count, e.Percentage)
	}
	fmt.Println(cli.RenderBox("Frequency of "+field, b.String()))
}

func printHistogram(bins []model.DistributionBin) {
	if len(bins) == 0 {
		return
	}

	maxCount := 0
	for _, b := range bins {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}

	var b strings.Builder
	for _, bin := range bins {
		width := 0
		if maxCount > 0 {
			width = bin.Count * 30 / maxCount
		}
		fmt.Fprintf(&b, "%-20s %s %d (%.1f%%)\n",
			bin.Label, strings.Repeat("█", width), bin.Count, bin.Percentage)
	}
	fmt.Println(cli.RenderBox("Distribution", b.String()))
}

func loadRecords(ctx context.Context, store *storage.SQLiteStorage, dataType string) ([]model.Record, error) {
	switch dataType {
	case "tower":
		towers, err := store.GetTowers(ctx)
		if err != nil {
			return nil, err
		}
		records := make([]model.Record, len(towers))
		for i := range towers {
			records[i] = towers[i].ToRecord()
		}
		return records, nil
	case "contract":
		contracts, err := store.GetContracts(ctx)
		if err != nil {
			return nil, err
		}
		records := make([]model.Record, len(contracts))
		for i := range contracts {
			records[i] = contracts[i].ToRecord()
		}
		return records, nil
	case "landlord":
		landlords, err := store.GetLandlords(ctx)
		if err != nil {
			return nil, err
		}
		records := make([]model.Record, len(landlords))
		for i := range landlords {
			records[i] = landlords[i].ToRecord()
		}
		return records, nil
	case "payment":
		payments, err := store.GetPayments(ctx, service.PaymentFilter{})
		if err != nil {
			return nil, err
		}
		records := make([]model.Record, len(payments))
		for i := range payments {
			records[i] = payments[i].ToRecord()
		}
		return records, nil
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedDataType, dataType)
	}
}
