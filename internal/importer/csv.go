package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/towerlens/towerlens/internal/common"
)

// parseCSV reads a headered CSV into loosely-typed rows. Header names are
// lowercased and trimmed so files from different sources line up. Blank rows
// are skipped.
func parseCSV(r io.Reader) ([]string, []map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%w: file is empty", common.ErrMissingColumns)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}

		blank := true
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i >= len(record) {
				break
			}
			value := strings.TrimSpace(record[i])
			row[col] = value
			if value != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}

	return columns, rows, nil
}

// requireColumns reports which of the given columns are missing from the
// parsed header.
func requireColumns(columns []string, required ...string) []string {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	var missing []string
	for _, c := range required {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
