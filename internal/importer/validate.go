package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/towerlens/towerlens/internal/coerce"
	"github.com/towerlens/towerlens/internal/common"
)

var requiredColumns = map[DataType][]string{
	DataTypeTower:    {"tower_id", "latitude", "longitude"},
	DataTypeContract: {"contract_id", "tower_id", "start_date", "end_date", "monthly_rate"},
	DataTypeLandlord: {"landlord_id", "name"},
	DataTypePayment:  {"contract_id", "payment_date", "amount"},
}

// Validate checks a CSV file against the rules for the given data type
// without importing anything. The result carries every finding; a row counts
// as invalid only when it has a critical finding.
func Validate(r io.Reader, dataType DataType) (*ValidationResult, error) {
	required, ok := requiredColumns[dataType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedDataType, dataType)
	}

	columns, rows, err := parseCSV(r)
	if err != nil {
		return nil, err
	}

	var errs []ValidationError
	if missing := requireColumns(columns, required...); len(missing) > 0 {
		for _, col := range missing {
			errs = append(errs, ValidationError{
				Row:      0,
				Column:   col,
				Message:  "required column is missing",
				Severity: SeverityCritical,
			})
		}
		return &ValidationResult{
			Valid:   false,
			Errors:  errs,
			Summary: ValidationSummary{Total: len(rows), Invalid: len(rows)},
		}, nil
	}

	invalid := 0
	for i, row := range rows {
		rowErrs := validateRow(row, dataType, i+1)
		errs = append(errs, rowErrs...)
		if hasCritical(rowErrs) {
			invalid++
		}
	}

	return &ValidationResult{
		Valid:  !hasCritical(errs),
		Errors: errs,
		Summary: ValidationSummary{
			Total:   len(rows),
			Valid:   len(rows) - invalid,
			Invalid: invalid,
		},
	}, nil
}

func hasCritical(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

func validateRow(row map[string]string, dataType DataType, rowNum int) []ValidationError {
	switch dataType {
	case DataTypeTower:
		return validateTowerRow(row, rowNum)
	case DataTypeContract:
		return validateContractRow(row, rowNum)
	case DataTypeLandlord:
		return validateLandlordRow(row, rowNum)
	case DataTypePayment:
		return validatePaymentRow(row, rowNum)
	default:
		return nil
	}
}

func validateTowerRow(row map[string]string, rowNum int) []ValidationError {
	var errs []ValidationError

	errs = appendIfEmpty(errs, row, "tower_id", rowNum)

	if lat, ok := coerce.AsNumber(row["latitude"]); !ok {
		errs = append(errs, ValidationError{Row: rowNum, Column: "latitude",
			Message: "not a number", Severity: SeverityCritical})
	} else if lat < -90 || lat > 90 {
		errs = append(errs, ValidationError{Row: rowNum, Column: "latitude",
			Message: "outside valid range [-90, 90]", Severity: SeverityCritical})
	}

	if lon, ok := coerce.AsNumber(row["longitude"]); !ok {
		errs = append(errs, ValidationError{Row: rowNum, Column: "longitude",
			Message: "not a number", Severity: SeverityCritical})
	} else if lon < -180 || lon > 180 {
		errs = append(errs, ValidationError{Row: rowNum, Column: "longitude",
			Message: "outside valid range [-180, 180]", Severity: SeverityCritical})
	}

	if h := row["height"]; h != "" {
		if height, ok := coerce.AsNumber(h); !ok {
			errs = append(errs, ValidationError{Row: rowNum, Column: "height",
				Message: "not a number", Severity: SeverityMajor})
		} else if height < 0 {
			errs = append(errs, ValidationError{Row: rowNum, Column: "height",
				Message: "height cannot be negative", Severity: SeverityMajor})
		}
	}

	return errs
}

func validateContractRow(row map[string]string, rowNum int) []ValidationError {
	var errs []ValidationError

	errs = appendIfEmpty(errs, row, "contract_id", rowNum)
	errs = appendIfEmpty(errs, row, "tower_id", rowNum)

	start, startOK := coerce.ParseDate(row["start_date"])
	if !startOK {
		errs = append(errs, ValidationError{Row: rowNum, Column: "start_date",
			Message: "unrecognized date", Severity: SeverityCritical})
	}
	end, endOK := coerce.ParseDate(row["end_date"])
	if !endOK {
		errs = append(errs, ValidationError{Row: rowNum, Column: "end_date",
			Message: "unrecognized date", Severity: SeverityCritical})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, ValidationError{Row: rowNum, Column: "end_date",
			Message: "ends before it starts", Severity: SeverityCritical})
	}

	if rate, ok := coerce.AsNumber(row["monthly_rate"]); !ok {
		errs = append(errs, ValidationError{Row: rowNum, Column: "monthly_rate",
			Message: "not a number", Severity: SeverityCritical})
	} else if rate <= 0 {
		errs = append(errs, ValidationError{Row: rowNum, Column: "monthly_rate",
			Message: "rate should be positive", Severity: SeverityMajor})
	}

	if cur := row["currency"]; cur != "" && len(cur) != 3 {
		errs = append(errs, ValidationError{Row: rowNum, Column: "currency",
			Message: "expected a 3-letter currency code", Severity: SeverityMinor})
	}

	return errs
}

func validateLandlordRow(row map[string]string, rowNum int) []ValidationError {
	var errs []ValidationError

	errs = appendIfEmpty(errs, row, "landlord_id", rowNum)
	errs = appendIfEmpty(errs, row, "name", rowNum)

	if email := row["email"]; email != "" && !strings.Contains(email, "@") {
		errs = append(errs, ValidationError{Row: rowNum, Column: "email",
			Message: "does not look like an email address", Severity: SeverityMinor})
	}

	return errs
}

func validatePaymentRow(row map[string]string, rowNum int) []ValidationError {
	var errs []ValidationError

	errs = appendIfEmpty(errs, row, "contract_id", rowNum)

	if _, ok := coerce.ParseDate(row["payment_date"]); !ok {
		errs = append(errs, ValidationError{Row: rowNum, Column: "payment_date",
			Message: "unrecognized date", Severity: SeverityCritical})
	}

	if _, ok := coerce.AsNumber(row["amount"]); !ok {
		errs = append(errs, ValidationError{Row: rowNum, Column: "amount",
			Message: "not a number", Severity: SeverityCritical})
	}

	return errs
}

func appendIfEmpty(errs []ValidationError, row map[string]string, column string, rowNum int) []ValidationError {
	if strings.TrimSpace(row[column]) == "" {
		errs = append(errs, ValidationError{Row: rowNum, Column: column,
			Message: "value is required", Severity: SeverityCritical})
	}
	return errs
}
