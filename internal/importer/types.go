// Package importer loads portfolio data from CSV files, validating and
// normalizing rows before they reach storage.
package importer

import "fmt"

// DataType identifies which portfolio entity a file contains.
type DataType string

// Supported data types.
const (
	DataTypeTower    DataType = "tower"
	DataTypeContract DataType = "contract"
	DataTypeLandlord DataType = "landlord"
	DataTypePayment  DataType = "payment"
)

// Severity grades a validation finding.
type Severity string

// Validation severities. Critical findings reject the row; minor findings
// are reported but the row still imports.
const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// ValidationError describes a single problem found in an input file. Row is
// 1-based and counts data rows, not the header.
type ValidationError struct {
	Column   string
	Message  string
	Severity Severity
	Row      int
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("row %d, column %q: %s", e.Row, e.Column, e.Message)
}

// ValidationSummary counts the outcome of validating a file.
type ValidationSummary struct {
	Total   int
	Valid   int
	Invalid int
}

// ValidationResult is the outcome of validating a file before import.
type ValidationResult struct {
	Errors  []ValidationError
	Summary ValidationSummary
	Valid   bool
}

// Result reports what happened during an import.
type Result struct {
	Imported int
	Skipped  int
	Failed   int
}

// Options controls import behavior.
type Options struct {
	// OnProgress is called after each batch with rows processed so far and
	// the total row count.
	OnProgress func(processed, total int)
	BatchSize  int
}

const defaultBatchSize = 50
