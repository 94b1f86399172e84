// Package report builds portfolio reports by composing the aggregation and
// chart transforms over stored data.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/towerlens/towerlens/internal/aggregate"
	"github.com/towerlens/towerlens/internal/chart"
	"github.com/towerlens/towerlens/internal/coerce"
	"github.com/towerlens/towerlens/internal/common"
	"github.com/towerlens/towerlens/internal/model"
	"github.com/towerlens/towerlens/internal/service"
)

// ExpiryStatus grades how soon a contract runs out.
type ExpiryStatus string

// Expiry grades by days remaining.
const (
	ExpiryCritical ExpiryStatus = "Critical" // 30 days or less
	ExpiryWarning  ExpiryStatus = "Warning"  // 90 days or less
	ExpiryUpcoming ExpiryStatus = "Upcoming"
)

func expiryStatus(daysRemaining int) ExpiryStatus {
	switch {
	case daysRemaining <= 30:
		return ExpiryCritical
	case daysRemaining <= 90:
		return ExpiryWarning
	default:
		return ExpiryUpcoming
	}
}

// ExpiringContract is one row of the expiry report table.
type ExpiringContract struct {
	EndDate       time.Time
	ContractID    string
	Tower         string
	Landlord      string
	Status        ExpiryStatus
	MonthlyRate   float64
	DaysRemaining int
}

// ContractExpiryReport summarizes contracts ending within the report window.
type ContractExpiryReport struct {
	GeneratedAt        time.Time
	ID                 string
	Title              string
	Description        string
	TopImpactMonth     string
	ExpirationsByMonth []model.TimeSeriesPoint
	RevenueByMonth     []model.TimeSeriesPoint
	Locations          []model.GeoPoint
	Rows               []ExpiringContract
	PeriodMonths       int
	TotalContracts     int
	AverageTermDays    int
	CriticalCount      int
	WarningCount       int
	TotalMonthlyValue  float64
	TopImpactAmount    float64
}

// PaymentReport summarizes payments over an optional date range.
type PaymentReport struct {
	GeneratedAt     time.Time
	Start           *time.Time
	End             *time.Time
	ID              string
	Title           string
	Description     string
	MonthlyTotals   []model.TimeSeriesPoint
	ByLandlord      []model.PieSlice
	LandlordTotals  []model.GroupResult
	StatusCounts    []model.GroupResult
	Payments        []model.Payment
	TotalAmount     float64
	AveragePayment  float64
	UniqueContracts int
}

// Generator builds reports from stored portfolio data. Chart transform
// results are memoized by input fingerprint, so regenerating a report over
// unchanged data reuses the previous series instead of recomputing them.
type Generator struct {
	store    service.Storage
	pieCache *chart.ResultCache[[]model.PieSlice]
	geoCache *chart.ResultCache[[]model.GeoPoint]
}

// NewGenerator creates a report generator backed by the given storage.
func NewGenerator(store service.Storage) *Generator {
	return &Generator{
		store:    store,
		pieCache: chart.NewResultCache[[]model.PieSlice](chart.DefaultCacheTTL, chart.DefaultCacheEntries),
		geoCache: chart.NewResultCache[[]model.GeoPoint](chart.DefaultCacheTTL, chart.DefaultCacheEntries),
	}
}

// ContractExpiry reports on contracts ending within the next periodMonths
// months, counted from today.
func (g *Generator) ContractExpiry(ctx context.Context, periodMonths int) (*ContractExpiryReport, error) {
	if periodMonths <= 0 {
		periodMonths = 12
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	cutoff := today.AddDate(0, periodMonths, 0)

	contracts, err := g.store.GetContractsExpiringBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to load contracts: %w", err)
	}

	towers, err := g.store.GetTowers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load towers: %w", err)
	}
	towersByID := make(map[string]model.Tower, len(towers))
	for _, t := range towers {
		towersByID[t.TowerID] = t
	}

	landlordNames, err := g.landlordNames(ctx)
	if err != nil {
		return nil, err
	}

	rpt := &ContractExpiryReport{
		ID:           uuid.NewString(),
		Title:        "Contract Expiry Timeline",
		Description:  fmt.Sprintf("Contract expiration analysis for the next %d months", periodMonths),
		GeneratedAt:  now,
		PeriodMonths: periodMonths,
	}

	var records []model.Record
	var geoRecords []model.Record
	var totalTermDays, termCount int
	for _, c := range contracts {
		if c.EndDate.Before(today) {
			continue
		}
		records = append(records, c.ToRecord())

		rpt.TotalContracts++
		rpt.TotalMonthlyValue += c.MonthlyRate

		daysRemaining := int(c.EndDate.Sub(today).Hours() / 24)
		status := expiryStatus(daysRemaining)
		switch status {
		case ExpiryCritical:
			rpt.CriticalCount++
		case ExpiryWarning:
			rpt.WarningCount++
		}

		if termDays := int(c.EndDate.Sub(c.StartDate).Hours() / 24); termDays > 0 {
			totalTermDays += termDays
			termCount++
		}

		towerName := c.TowerID
		if tower, ok := towersByID[c.TowerID]; ok {
			if tower.Name != "" {
				towerName = tower.Name
			}
			geoRecords = append(geoRecords, model.Record{
				"latitude":  tower.Latitude,
				"longitude": tower.Longitude,
				"weight":    c.MonthlyRate,
				"label":     towerName,
			})
		}

		landlord := landlordNames[c.LandlordID]
		if landlord == "" {
			landlord = "Unknown"
		}
		rpt.Rows = append(rpt.Rows, ExpiringContract{
			ContractID:    c.ContractID,
			Tower:         towerName,
			Landlord:      landlord,
			EndDate:       c.EndDate,
			DaysRemaining: daysRemaining,
			MonthlyRate:   c.MonthlyRate,
			Status:        status,
		})
	}

	rpt.ExpirationsByMonth = aggregate.TimeSeries(records, "end_date", "monthly_rate",
		aggregate.IntervalMonth, coerce.AggCount)
	rpt.RevenueByMonth = aggregate.TimeSeries(records, "end_date", "monthly_rate",
		aggregate.IntervalMonth, coerce.AggSum)
	rpt.Locations = g.cachedGeoPoints(geoRecords)

	if termCount > 0 {
		rpt.AverageTermDays = totalTermDays / termCount
	}
	for _, point := range rpt.RevenueByMonth {
		if point.Value > rpt.TopImpactAmount {
			rpt.TopImpactAmount = point.Value
			rpt.TopImpactMonth = point.DisplayLabel
		}
	}

	return rpt, nil
}

// Payments reports payment volume between start and end; either bound may be
// nil for an open range.
func (g *Generator) Payments(ctx context.Context, start, end *time.Time) (*PaymentReport, error) {
	payments, err := g.store.GetPayments(ctx, service.PaymentFilter{StartDate: start, EndDate: end})
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	if len(payments) == 0 {
		return nil, common.ErrNoPortfolioData
	}

	landlordByContract, err := g.landlordByContract(ctx)
	if err != nil {
		return nil, err
	}

	rpt := &PaymentReport{
		ID:          uuid.NewString(),
		Title:       "Monthly Payment Summary",
		Description: describeRange(start, end),
		GeneratedAt: time.Now(),
		Start:       start,
		End:         end,
		Payments:    payments,
	}

	records := make([]model.Record, len(payments))
	contracts := make(map[string]struct{})
	for i, p := range payments {
		record := p.ToRecord()
		landlord := landlordByContract[p.ContractID]
		if landlord == "" {
			landlord = "Unknown"
		}
		record["landlord_name"] = landlord
		records[i] = record

		rpt.TotalAmount += p.Amount
		contracts[p.ContractID] = struct{}{}
	}
	rpt.UniqueContracts = len(contracts)
	rpt.AveragePayment = rpt.TotalAmount / float64(len(payments))

	rpt.MonthlyTotals = aggregate.TimeSeries(records, "payment_date", "amount",
		aggregate.IntervalMonth, coerce.AggSum)
	rpt.LandlordTotals = aggregate.GroupByField(records, "landlord_name", "amount", coerce.AggSum)
	rpt.StatusCounts = aggregate.GroupByField(records, "status", "amount", coerce.AggCount)

	landlordRecords := make([]model.Record, len(rpt.LandlordTotals))
	for i, group := range rpt.LandlordTotals {
		landlordRecords[i] = model.Record{"landlord": group.Group, "total": group.Value}
	}
	rpt.ByLandlord = g.cachedPieSeries(landlordRecords)

	return rpt, nil
}

// landlordPieOptions shapes the top-landlord breakdown: top five by volume,
// remainder folded into Others.
var landlordPieOptions = chart.Options{
	SortBy:        chart.SortValue,
	SortDirection: chart.SortDesc,
	Limit:         5,
	GroupOthers:   true,
}

func (g *Generator) cachedPieSeries(records []model.Record) []model.PieSlice {
	fingerprint := chart.Fingerprint(records, landlordPieOptions)
	if slices, ok := g.pieCache.Get(fingerprint); ok {
		return slices
	}
	slices := chart.ToPieSeries(records, "landlord", "total", landlordPieOptions)
	g.pieCache.Set(fingerprint, slices)
	return slices
}

func (g *Generator) cachedGeoPoints(records []model.Record) []model.GeoPoint {
	fingerprint := chart.Fingerprint(records, chart.Options{})
	if points, ok := g.geoCache.Get(fingerprint); ok {
		return points
	}
	points := chart.ToGeoPoints(records, "latitude", "longitude", "weight", "label")
	g.geoCache.Set(fingerprint, points)
	return points
}

func describeRange(start, end *time.Time) string {
	if start != nil && end != nil {
		return fmt.Sprintf("Payment summary for the period %s to %s",
			start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
	}
	return "Monthly payment summary for all contracts"
}

func (g *Generator) landlordNames(ctx context.Context) (map[string]string, error) {
	landlords, err := g.store.GetLandlords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load landlords: %w", err)
	}
	names := make(map[string]string, len(landlords))
	for _, l := range landlords {
		names[l.LandlordID] = l.Name
	}
	return names, nil
}

// landlordByContract resolves contract IDs to landlord names through the
// contract table.
func (g *Generator) landlordByContract(ctx context.Context) (map[string]string, error) {
	contracts, err := g.store.GetContracts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contracts: %w", err)
	}
	names, err := g.landlordNames(ctx)
	if err != nil {
		return nil, err
	}

	byContract := make(map[string]string, len(contracts))
	for _, c := range contracts {
		byContract[c.ContractID] = names[c.LandlordID]
	}
	return byContract, nil
}
