package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/towerlens/towerlens/internal/cli"
	"github.com/towerlens/towerlens/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate portfolio reports",
	}

	cmd.AddCommand(reportExpiryCmd())
	cmd.AddCommand(reportPaymentsCmd())

	return cmd
}

func reportExpiryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expiry",
		Short: "Contracts expiring within a window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			months, _ := cmd.Flags().GetInt("months")
			rpt, err := report.NewGenerator(store).ContractExpiry(ctx, months)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle(rpt.Title))
			fmt.Println(cli.SubtleStyle.Render(rpt.Description))

			summary := fmt.Sprintf(`Expiring contracts: %d
Monthly value at risk: $%.2f
Critical (≤30 days): %d
Warning (≤90 days): %d
Average term: %d days
Peak impact: %s ($%.2f)`,
				rpt.TotalContracts, rpt.TotalMonthlyValue,
				rpt.CriticalCount, rpt.WarningCount,
				rpt.AverageTermDays, rpt.TopImpactMonth, rpt.TopImpactAmount)
			fmt.Println(cli.RenderBox(cli.ReportIcon+" Summary", summary))

			var b strings.Builder
			fmt.Fprintf(&b, "%-12s %-20s %-20s %-12s %6s %10s  %s\n",
				"Contract", "Tower", "Landlord", "End date", "Days", "Rate", "Status")
			for _, row := range rpt.Rows {
				fmt.Fprintf(&b, "%-12s %-20s %-20s %-12s %6d %10.2f  %s\n",
					row.ContractID, row.Tower, row.Landlord,
					row.EndDate.Format("2006-01-02"), row.DaysRemaining,
					row.MonthlyRate, styleExpiry(row.Status))
			}
			fmt.Println(cli.RenderBox("Expiring contracts", b.String()))

			return nil
		},
	}

	cmd.Flags().Int("months", 12, "report window in months")

	return cmd
}

func styleExpiry(status report.ExpiryStatus) string {
	switch status {
	case report.ExpiryCritical:
		return cli.ErrorStyle.Render(string(status))
	case report.ExpiryWarning:
		return cli.WarningStyle.Render(string(status))
	default:
		return cli.SubtleStyle.Render(string(status))
	}
}

func reportPaymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Payment volume by month, landlord, and status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			start, err := dateFlag(cmd, "start")
			if err != nil {
				return err
			}
			end, err := dateFlag(cmd, "end")
			if err != nil {
				return err
			}

			rpt, err := report.NewGenerator(store).Payments(ctx, start, end)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle(rpt.Title))
			fmt.Println(cli.SubtleStyle.Render(rpt.Description))

			summary := fmt.Sprintf(`Total payments: $%.2f
Contracts: %d
Average payment: $%.2f`,
				rpt.TotalAmount, rpt.UniqueContracts, rpt.AveragePayment)
			fmt.Println(cli.RenderBox(cli.ReportIcon+" Summary", summary))

			var monthly strings.Builder
			for _, p := range rpt.MonthlyTotals {
				fmt.Fprintf(&monthly, "%-12s %12.2f\n", p.DisplayLabel, p.Value)
			}
			fmt.Println(cli.RenderBox("Monthly totals", monthly.String()))

			var landlords strings.Builder
			for _, s := range rpt.ByLandlord {
				fmt.Fprintf(&landlords, "%-24s %12.2f\n", s.Label, s.Value)
			}
			fmt.Println(cli.RenderBox("Top landlords", landlords.String()))

			var statuses strings.Builder
			for _, g := range rpt.StatusCounts {
				fmt.Fprintf(&statuses, "%-16s %6d\n", g.Group, g.Count)
			}
			fmt.Println(cli.RenderBox("By status", statuses.String()))

			return nil
		},
	}

	cmd.Flags().String("start", "", "start date (2006-01-02)")
	cmd.Flags().String("end", "", "end date (2006-01-02)")

	return cmd
}

func dateFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	value, _ := cmd.Flags().GetString(name)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date: %w", name, err)
	}
	return &t, nil
}
