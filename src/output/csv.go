// Package output writes collected records to CSV and XLSX files.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"circle-stats/src/provider"
	"circle-stats/src/stats"
)

// Output file names.
const (
	BuildFile = "build.csv"
	TestsFile = "tests.csv"
)

// TestFields is the fixed column order of tests.csv.
var TestFields = []string{"build", "test_class", "test_name", "full_name", "result", "run_time", "message"}

// BuildFields returns the column order of build.csv. job_name is only included when at
// least one build carried workflow job information.
func BuildFields(r *stats.Result) []string {
	fields := []string{"start_time", "status", "build_time", "failure_step"}
	if r.HasJobNames() {
		fields = append(fields, "job_name")
	}
	return fields
}

// WriteCSV writes a header row followed by one row per record, fields in fieldOrder.
// Nothing is written to path when a row lacks a declared field.
func WriteCSV(path string, fieldOrder []string, rows []map[string]string) error {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, fieldOrder, rows); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// EncodeCSV renders rows as comma-delimited CSV with encoding/csv quoting. A field is
// quoted when it contains the delimiter, a quote, \r or \n, when it starts with a
// whitespace character, or when it is exactly `\.`. Every other field is written bare.
func EncodeCSV(w io.Writer, fieldOrder []string, rows []map[string]string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(fieldOrder); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(fieldOrder))
	for i, row := range rows {
		for j, field := range fieldOrder {
			value, ok := row[field]
			if !ok {
				return &provider.SchemaError{Field: field, Record: fmt.Sprintf("row %d", i+1)}
			}
			record[j] = value
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
