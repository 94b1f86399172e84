package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/towerlens/towerlens/internal/model"
	"github.com/towerlens/towerlens/internal/service"
)

// SaveTowers inserts towers, silently skipping rows already present (same
// content hash). Rows without an id get one generated.
func (s *SQLiteStorage) SaveTowers(ctx context.Context, towers []model.Tower) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO towers (
			id, hash, tower_id, name, type, status, latitude, longitude, height
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range towers {
		t := &towers[i]
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.GenerateHash(), t.TowerID,
			t.Name, t.Type, t.Status, t.Latitude, t.Longitude, t.Height); err != nil {
			return fmt.Errorf("failed to save tower %s: %w", t.TowerID, err)
		}
	}

	return tx.Commit()
}

// GetTowers returns every tower in the portfolio.
func (s *SQLiteStorage) GetTowers(ctx context.Context) ([]model.Tower, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tower_id, name, type, status, latitude, longitude, height
		FROM towers ORDER BY tower_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query towers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var towers []model.Tower
	for rows.Next() {
		var t model.Tower
		if err := rows.Scan(&t.ID, &t.TowerID, &t.Name, &t.Type, &t.Status,
			&t.Latitude, &t.Longitude, &t.Height); err != nil {
			return nil, fmt.Errorf("failed to scan tower: %w", err)
		}
		towers = append(towers, t)
	}
	return towers, rows.Err()
}

// SaveContracts inserts contracts with hash-based dedupe.
func (s *SQLiteStorage) SaveContracts(ctx context.Context, contracts []model.Contract) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO contracts (
			id, hash, contract_id, tower_id, landlord_id,
			start_date, end_date, monthly_rate, currency, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range contracts {
		c := &contracts[i]
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.GenerateHash(), c.ContractID,
			c.TowerID, c.LandlordID, c.StartDate, c.EndDate,
			c.MonthlyRate, c.Currency, c.Status); err != nil {
			return fmt.Errorf("failed to save contract %s: %w", c.ContractID, err)
		}
	}

	return tx.Commit()
}

// GetContracts returns every contract in the portfolio.
func (s *SQLiteStorage) GetContracts(ctx context.Context) ([]model.Contract, error) {
	return s.queryContracts(ctx, `
		SELECT id, contract_id, tower_id, landlord_id, start_date, end_date,
			monthly_rate, currency, status
		FROM contracts ORDER BY end_date
	`)
}

// GetContractsExpiringBefore returns contracts whose end date falls on or
// before the cutoff, soonest first.
func (s *SQLiteStorage) GetContractsExpiringBefore(ctx context.Context, cutoff time.Time) ([]model.Contract, error) {
	return s.queryContracts(ctx, `
		SELECT id, contract_id, tower_id, landlord_id, start_date, end_date,
			monthly_rate, currency, status
		FROM contracts WHERE end_date <= ? ORDER BY end_date
	`, cutoff)
}

func (s *SQLiteStorage) queryContracts(ctx context.Context, query string, args ...any) ([]model.Contract, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var contracts []model.Contract
	for rows.Next() {
		var c model.Contract
		if err := rows.Scan(&c.ID, &c.ContractID, &c.TowerID, &c.LandlordID,
			&c.StartDate, &c.EndDate, &c.MonthlyRate, &c.Currency, &c.Status); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

// SaveLandlords inserts landlords with hash-based dedupe.
func (s *SQLiteStorage) SaveLandlords(ctx context.Context, landlords []model.Landlord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO landlords (
			id, hash, landlord_id, name, contact_name, email, phone, address
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range landlords {
		l := &landlords[i]
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, l.ID, l.GenerateHash(), l.LandlordID,
			l.Name, l.ContactName, l.Email, l.Phone, l.Address); err != nil {
			return fmt.Errorf("failed to save landlord %s: %w", l.LandlordID, err)
		}
	}

	return tx.Commit()
}

// GetLandlords returns every landlord.
func (s *SQLiteStorage) GetLandlords(ctx context.Context) ([]model.Landlord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, landlord_id, name, contact_name, email, phone, address
		FROM landlords ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query landlords: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var landlords []model.Landlord
	for rows.Next() {
		var l model.Landlord
		if err := rows.Scan(&l.ID, &l.LandlordID, &l.Name, &l.ContactName,
			&l.Email, &l.Phone, &l.Address); err != nil {
			return nil, fmt.Errorf("failed to scan landlord: %w", err)
		}
		landlords = append(landlords, l)
	}
	return landlords, rows.Err()
}

// SavePayments inserts payments with hash-based dedupe.
func (s *SQLiteStorage) SavePayments(ctx context.Context, payments []model.Payment) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO payments (
			id, hash, contract_id, payment_date, amount, status, reference_id
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range payments {
		p := &payments[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.GenerateHash(), p.ContractID,
			p.PaymentDate, p.Amount, p.Status, p.ReferenceID); err != nil {
			return fmt.Errorf("failed to save payment %s: %w", p.ReferenceID, err)
		}
	}

	return tx.Commit()
}

// GetPayments returns payments matching the filter, oldest first.
func (s *SQLiteStorage) GetPayments(ctx context.Context, filter service.PaymentFilter) ([]model.Payment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, contract_id, payment_date, amount, status, reference_id
		FROM payments WHERE 1=1
	`
	var args []any
	if filter.StartDate != nil {
		query += " AND payment_date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND payment_date <= ?"
		args = append(args, *filter.EndDate)
	}
	if filter.ContractID != "" {
		query += " AND contract_id = ?"
		args = append(args, filter.ContractID)
	}
	query += " ORDER BY payment_date"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var payments []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.ContractID, &p.PaymentDate, &p.Amount,
			&p.Status, &p.ReferenceID); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// PortfolioSummary returns entity counts and the observed payment timeframe.
func (s *SQLiteStorage) PortfolioSummary(ctx context.Context) (*service.PortfolioSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	summary := &service.PortfolioSummary{}
	counts := map[string]*int{
		"towers":    &summary.TowerCount,
		"contracts": &summary.ContractCount,
		"landlords": &summary.LandlordCount,
		"payments":  &summary.PaymentCount,
	}
	for _, table := range []string{"towers", "contracts", "landlords", "payments"} {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(counts[table]); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
	}

	if summary.PaymentCount > 0 {
		var first, last time.Time
		err := s.db.QueryRowContext(ctx,
			"SELECT payment_date FROM payments ORDER BY payment_date ASC LIMIT 1").Scan(&first)
		if err != nil {
			return nil, fmt.Errorf("failed to read payment timeframe: %w", err)
		}
		err = s.db.QueryRowContext(ctx,
			"SELECT payment_date FROM payments ORDER BY payment_date DESC LIMIT 1").Scan(&last)
		if err != nil {
			return nil, fmt.Errorf("failed to read payment timeframe: %w", err)
		}
		summary.FirstPayment = &first
		summary.LastPayment = &last
	}

	return summary, nil
}
