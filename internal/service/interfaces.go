// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/towerlens/towerlens/internal/model"
)

// PaymentFilter defines filtering options for payment queries.
type PaymentFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	ContractID string
	Limit      int
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Tower operations
	SaveTowers(ctx context.Context, towers []model.Tower) error
	GetTowers(ctx context.Context) ([]model.Tower, error)

	// Contract operations
	SaveContracts(ctx context.Context, contracts []model.Contract) error
	GetContracts(ctx context.Context) ([]model.Contract, error)
	GetContractsExpiringBefore(ctx context.Context, cutoff time.Time) ([]model.Contract, error)

	// Landlord operations
	SaveLandlords(ctx context.Context, landlords []model.Landlord) error
	GetLandlords(ctx context.Context) ([]model.Landlord, error)

	// Payment operations
	SavePayments(ctx context.Context, payments []model.Payment) error
	GetPayments(ctx context.Context, filter PaymentFilter) ([]model.Payment, error)

	// PortfolioSummary returns entity counts and the observed payment
	// timeframe, used to ground LLM prompts in the user's actual data.
	PortfolioSummary(ctx context.Context) (*PortfolioSummary, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// PortfolioSummary holds the headline shape of a company's portfolio.
type PortfolioSummary struct {
	FirstPayment  *time.Time
	LastPayment   *time.Time
	TowerCount    int
	ContractCount int
	LandlordCount int
	PaymentCount  int
}

// RetryOptions configures retry behavior for operations that may fail
// transiently.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
