package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/towerlens/towerlens/internal/coerce"
	"github.com/towerlens/towerlens/internal/common"
	"github.com/towerlens/towerlens/internal/model"
	"github.com/towerlens/towerlens/internal/service"
)

// Importer loads validated, normalized portfolio data into storage.
type Importer struct {
	store service.Storage
}

// New creates an importer backed by the given storage.
func New(store service.Storage) *Importer {
	return &Importer{store: store}
}

// Import reads a CSV file of the given data type, validates each row,
// normalizes the rows that pass, and saves them in batches. Rows with
// critical findings are counted as failed and skipped; rows already present
// in storage (same content hash) are counted as skipped.
func (imp *Importer) Import(ctx context.Context, r io.Reader, dataType DataType, opts Options) (*Result, *ValidationResult, error) {
	required, ok := requiredColumns[dataType]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", common.ErrUnsupportedDataType, dataType)
	}

	columns, rows, err := parseCSV(r)
	if err != nil {
		return nil, nil, err
	}

	if missing := requireColumns(columns, required...); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrMissingColumns, missing)
	}

	validation := &ValidationResult{Summary: ValidationSummary{Total: len(rows)}}
	var validRows []map[string]string
	for i, row := range rows {
		rowErrs := validateRow(row, dataType, i+1)
		validation.Errors = append(validation.Errors, rowErrs...)
		if hasCritical(rowErrs) {
			validation.Summary.Invalid++
			continue
		}
		validation.Summary.Valid++
		validRows = append(validRows, row)
	}
	validation.Valid = !hasCritical(validation.Errors)

	before, err := imp.entityCount(ctx, dataType)
	if err != nil {
		return nil, nil, err
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	processed := validation.Summary.Invalid
	for start := 0; start < len(validRows); start += batchSize {
		end := start + batchSize
		if end > len(validRows) {
			end = len(validRows)
		}
		batch := validRows[start:end]

		if err := imp.saveBatch(ctx, batch, dataType); err != nil {
			return nil, nil, err
		}

		processed += len(batch)
		if opts.OnProgress != nil {
			opts.OnProgress(processed, len(rows))
		}
	}

	after, err := imp.entityCount(ctx, dataType)
	if err != nil {
		return nil, nil, err
	}

	result := &Result{
		Imported: after - before,
		Skipped:  len(validRows) - (after - before),
		Failed:   validation.Summary.Invalid,
	}
	slog.Info("Import complete",
		"data_type", dataType,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"failed", result.Failed)

	return result, validation, nil
}

func (imp *Importer) entityCount(ctx context.Context, dataType DataType) (int, error) {
	summary, err := imp.store.PortfolioSummary(ctx)
	if err != nil {
		return 0, err
	}
	switch dataType {
	case DataTypeTower:
		return summary.TowerCount, nil
	case DataTypeContract:
		return summary.ContractCount, nil
	case DataTypeLandlord:
		return summary.LandlordCount, nil
	case DataTypePayment:
		return summary.PaymentCount, nil
	default:
		return 0, fmt.Errorf("%w: %s", common.ErrUnsupportedDataType, dataType)
	}
}

func (imp *Importer) saveBatch(ctx context.Context, rows []map[string]string, dataType DataType) error {
	switch dataType {
	case DataTypeTower:
		towers := make([]model.Tower, len(rows))
		for i, row := range rows {
			towers[i] = buildTower(row)
		}
		return imp.store.SaveTowers(ctx, towers)
	case DataTypeContract:
		contracts := make([]model.Contract, len(rows))
		for i, row := range rows {
			contracts[i] = buildContract(row)
		}
		return imp.store.SaveContracts(ctx, contracts)
	case DataTypeLandlord:
		landlords := make([]model.Landlord, len(rows))
		for i, row := range rows {
			landlords[i] = buildLandlord(row)
		}
		return imp.store.SaveLandlords(ctx, landlords)
	case DataTypePayment:
		payments := make([]model.Payment, len(rows))
		for i, row := range rows {
			payments[i] = buildPayment(row)
		}
		return imp.store.SavePayments(ctx, payments)
	default:
		return fmt.Errorf("%w: %s", common.ErrUnsupportedDataType, dataType)
	}
}

func buildTower(row map[string]string) model.Tower {
	lat, _ := coerce.AsNumber(row["latitude"])
	lon, _ := coerce.AsNumber(row["longitude"])
	return model.Tower{
		TowerID:   sanitizeText(row["tower_id"]),
		Name:      sanitizeText(row["name"]),
		Type:      sanitizeText(row["type"]),
		Status:    normalizeStatus(row["status"], DataTypeTower),
		Latitude:  normalizeCoordinate(lat),
		Longitude: normalizeCoordinate(lon),
		Height:    coerce.ToNumber(row["height"]),
	}
}

func buildContract(row map[string]string) model.Contract {
	start, _ := coerce.ParseDate(row["start_date"])
	end, _ := coerce.ParseDate(row["end_date"])
	currency := sanitizeText(row["currency"])
	if currency == "" {
		currency = "USD"
	}
	return model.Contract{
		ContractID:  sanitizeText(row["contract_id"]),
		TowerID:     sanitizeText(row["tower_id"]),
		LandlordID:  sanitizeText(row["landlord_id"]),
		StartDate:   start,
		EndDate:     end,
		MonthlyRate: coerce.ToNumber(row["monthly_rate"]),
		Currency:    toUpper(currency),
		Status:      normalizeStatus(row["status"], DataTypeContract),
	}
}

func buildLandlord(row map[string]string) model.Landlord {
	return model.Landlord{
		LandlordID:  sanitizeText(row["landlord_id"]),
		Name:        sanitizeText(row["name"]),
		ContactName: sanitizeText(row["contact_name"]),
		Email:       toLowerTrim(row["email"]),
		Phone:       normalizePhone(row["phone"]),
		Address:     sanitizeText(row["address"]),
	}
}

func buildPayment(row map[string]string) model.Payment {
	date, _ := coerce.ParseDate(row["payment_date"])
	return model.Payment{
		ContractID:  sanitizeText(row["contract_id"]),
		PaymentDate: date,
		Amount:      coerce.ToNumber(row["amount"]),
		Status:      normalizeStatus(row["status"], DataTypePayment),
		ReferenceID: sanitizeText(row["reference_id"]),
	}
}
