package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towerlens/towerlens/internal/common"
	"github.com/towerlens/towerlens/internal/model"
	"github.com/towerlens/towerlens/internal/service"
)

// stubStore serves fixed slices; save methods are unused by the generator.
type stubStore struct {
	towers    []model.Tower
	contracts []model.Contract
	landlords []model.Landlord
	payments  []model.Payment
}

func (s *stubStore) SaveTowers(context.Context, []model.Tower) error { return nil }
func (s *stubStore) GetTowers(context.Context) ([]model.Tower, error) {
	return s.towers, nil
}
func (s *stubStore) SaveContracts(context.Context, []model.Contract) error { return nil }
func (s *stubStore) GetContracts(context.Context) ([]model.Contract, error) {
	return s.contracts, nil
}
func (s *stubStore) GetContractsExpiringBefore(_ context.Context, cutoff time.Time) ([]model.Contract, error) {
	var out []model.Contract
	for _, c := range s.contracts {
		if !c.EndDate.After(cutoff) {
			out = append(out, c)
		}
	}
	return out, nil
}
func (s *stubStore) SaveLandlords(context.Context, []model.Landlord) error { return nil }
func (s *stubStore) GetLandlords(context.Context) ([]model.Landlord, error) {
	return s.landlords, nil
}
func (s *stubStore) SavePayments(context.Context, []model.Payment) error { return nil }
func (s *stubStore) GetPayments(_ context.Context, filter service.PaymentFilter) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range s.payments {
		if filter.StartDate != nil && p.PaymentDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && p.PaymentDate.After(*filter.EndDate) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
func (s *stubStore) PortfolioSummary(context.Context) (*service.PortfolioSummary, error) {
	return &service.PortfolioSummary{}, nil
}
func (s *stubStore) Migrate(context.Context) error { return nil }
func (s *stubStore) Close() error                  { return nil }

func daysFromNow(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, days)
}

func TestContractExpiry(t *testing.T) {
	store := &stubStore{
		towers: []model.Tower{
			{TowerID: "TX-001", Name: "Dallas North", Latitude: 32.7767, Longitude: -96.797},
			{TowerID: "TX-002", Name: "Austin West", Latitude: 30.2672, Longitude: -97.7431},
		},
		landlords: []model.Landlord{
			{LandlordID: "L-1", Name: "Prairie Holdings"},
		},
		contracts: []model.Contract{
			{
				ContractID:  "C-100",
				TowerID:     "TX-001",
				LandlordID:  "L-1",
				StartDate:   daysFromNow(-700),
				EndDate:     daysFromNow(20),
				MonthlyRate: 2500,
			},
			{
				ContractID:  "C-101",
				TowerID:     "TX-002",
				LandlordID:  "L-9",
				StartDate:   daysFromNow(-400),
				EndDate:     daysFromNow(80),
				MonthlyRate: 3000,
			},
			{
				ContractID:  "C-102",
				TowerID:     "TX-001",
				LandlordID:  "L-1",
				StartDate:   daysFromNow(-100),
				EndDate:     daysFromNow(300),
				MonthlyRate: 1000,
			},
		},
	}

	rpt, err := NewGenerator(store).ContractExpiry(context.Background(), 12)
	require.NoError(t, err)

	assert.NotEmpty(t, rpt.ID)
	assert.Equal(t, 3, rpt.TotalContracts)
	assert.Equal(t, 6500.0, rpt.TotalMonthlyValue)
	assert.Equal(t, 1, rpt.CriticalCount)
	assert.Equal(t, 1, rpt.WarningCount)
	assert.Positive(t, rpt.AverageTermDays)

	require.Len(t, rpt.Rows, 3)
	assert.Equal(t, ExpiryCritical, rpt.Rows[0].Status)
	assert.Equal(t, "Dallas North", rpt.Rows[0].Tower)
	assert.Equal(t, "Prairie Holdings", rpt.Rows[0].Landlord)
	assert.Equal(t, "Unknown", rpt.Rows[1].Landlord)

	// Each contract sits on a mapped tower.
	assert.Len(t, rpt.Locations, 3)

	// Monthly expiration counts add back up to the contract total.
	var counted float64
	for _, p := range rpt.ExpirationsByMonth {
		counted += p.Value
	}
	assert.Equal(t, float64(rpt.TotalContracts), counted)

	assert.NotEmpty(t, rpt.TopImpactMonth)
	assert.Positive(t, rpt.TopImpactAmount)
}

func TestContractExpiry_WindowExcludesLaterContracts(t *testing.T) {
	store := &stubStore{
		contracts: []model.Contract{
			{ContractID: "C-1", EndDate: daysFromNow(30), MonthlyRate: 100},
			{ContractID: "C-2", EndDate: daysFromNow(400), MonthlyRate: 100},
		},
	}

	rpt, err := NewGenerator(store).ContractExpiry(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, 1, rpt.TotalContracts)
}

func TestPayments(t *testing.T) {
	store := &stubStore{
		landlords: []model.Landlord{
			{LandlordID: "L-1", Name: "Prairie Holdings"},
			{LandlordID: "L-2", Name: "Hudson Land Co"},
		},
		contracts: []model.Contract{
			{ContractID: "C-100", LandlordID: "L-1"},
			{ContractID: "C-101", LandlordID: "L-2"},
		},
		payments: []model.Payment{
			{ContractID: "C-100", PaymentDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Amount: 2500, Status: "processed"},
			{ContractID: "C-100", PaymentDate: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), Amount: 2500, Status: "processed"},
			{ContractID: "C-101", PaymentDate: time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), Amount: 4100, Status: "scheduled"},
		},
	}

	rpt, err := NewGenerator(store).Payments(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 9100.0, rpt.TotalAmount)
	assert.Equal(t, 2, rpt.UniqueContracts)
	assert.InDelta(t, 3033.33, rpt.AveragePayment, 0.01)

	require.Len(t, rpt.MonthlyTotals, 2)
	assert.Equal(t, "2024-01", rpt.MonthlyTotals[0].PeriodKey)
	assert.Equal(t, 2500.0, rpt.MonthlyTotals[0].Value)
	assert.Equal(t, 6600.0, rpt.MonthlyTotals[1].Value)

	require.Len(t, rpt.LandlordTotals, 2)
	require.Len(t, rpt.ByLandlord, 2)
	// Sorted descending by value.
	assert.Equal(t, "Prairie Holdings", rpt.ByLandlord[0].Label)
	assert.Equal(t, 5000.0, rpt.ByLandlord[0].Value)

	require.Len(t, rpt.StatusCounts, 2)
}

func TestPayments_DateRange(t *testing.T) {
	store := &stubStore{
		contracts: []model.Contract{{ContractID: "C-100", LandlordID: "L-1"}},
		payments: []model.Payment{
			{ContractID: "C-100", PaymentDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Amount: 100},
			{ContractID: "C-100", PaymentDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Amount: 200},
		},
	}

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	rpt, err := NewGenerator(store).Payments(context.Background(), &start, &end)
	require.NoError(t, err)

	assert.Equal(t, 200.0, rpt.TotalAmount)
	assert.Contains(t, rpt.Description, "Feb 1, 2024")
}

func TestPayments_NoData(t *testing.T) {
	_, err := NewGenerator(&stubStore{}).Payments(context.Background(), nil, nil)
	assert.ErrorIs(t, err, common.ErrNoPortfolioData)
}

func TestGenerator_ReusesChartResults(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{
		towers: []model.Tower{
			{TowerID: "TX-001", Name: "Dallas North", Latitude: 32.7767, Longitude: -96.797},
		},
		landlords: []model.Landlord{
			{LandlordID: "L-1", Name: "Prairie Holdings"},
		},
		contracts: []model.Contract{
			{
				ContractID:  "C-100",
				TowerID:     "TX-001",
				LandlordID:  "L-1",
				StartDate:   daysFromNow(-700),
				EndDate:     daysFromNow(60),
				MonthlyRate: 2500,
			},
		},
		payments: []model.Payment{
			{ContractID: "C-100", PaymentDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Amount: 2500, Status: "processed"},
			{ContractID: "C-100", PaymentDate: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), Amount: 2500, Status: "processed"},
		},
	}
	g := NewGenerator(store)

	t.Run("payments pie series", func(t *testing.T) {
		first, err := g.Payments(ctx, nil, nil)
		require.NoError(t, err)
		require.Equal(t, 1, g.pieCache.Len())

		second, err := g.Payments(ctx, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, g.pieCache.Len())
		assert.Equal(t, first.ByLandlord, second.ByLandlord)
	})

	t.Run("expiry map locations", func(t *testing.T) {
		first, err := g.ContractExpiry(ctx, 12)
		require.NoError(t, err)
		require.Equal(t, 1, g.geoCache.Len())

		second, err := g.ContractExpiry(ctx, 12)
		require.NoError(t, err)
		assert.Equal(t, 1, g.geoCache.Len())
		assert.Equal(t, first.Locations, second.Locations)
	})
}
