package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"circle-stats/src/stats"
)

// WriteResult writes build.csv and tests.csv into dir and returns their paths.
// Both files are encoded before either is written, so a schema violation leaves no output.
func WriteResult(dir string, r *stats.Result) ([]string, error) {
	files := []struct {
		name   string
		fields []string
		rows   []map[string]string
	}{
		{name: BuildFile, fields: BuildFields(r), rows: r.BuildRows()},
		{name: TestsFile, fields: TestFields, rows: r.TestRows()},
	}

	encoded := make([]bytes.Buffer, len(files))
	for i, f := range files {
		if err := EncodeCSV(&encoded[i], f.fields, f.rows); err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	paths := make([]string, 0, len(files))
	for i, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, encoded[i].Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteResultXLSX writes the builds and tests sheets to dir and returns the workbook path.
func WriteResultXLSX(dir string, r *stats.Result) (string, error) {
	path := filepath.Join(dir, WorkbookFile)
	err := WriteXLSX(path, []Sheet{
		{Name: "builds", Fields: BuildFields(r), Rows: r.BuildRows()},
		{Name: "tests", Fields: TestFields, Rows: r.TestRows()},
	})
	if err != nil {
		return "", err
	}
	return path, nil
}
