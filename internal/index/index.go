// Package index maintains the CSV files mapping feature images to labels,
// partitioned into train and test splits.
package index

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Well known file and directory names inside a dataset directory.
const (
	TrainIndex = "train_index.csv"
	TestIndex  = "test_index.csv"
	TrainDir   = "train_picture"
	TestDir    = "test_picture"
)

// header is the single header row of every index file.
var header = []string{"path", "label"}

// Record is one index row: an image path relative to the dataset directory
// and the label of the recording it was derived from.
type Record struct {
	Path  string
	Label string
}

// Write creates or truncates the index file at path and writes all records
// after the header row.
func Write(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create index file %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write index header: %w", err)
	}
	for _, r := range records {
		if err := w.Write([]string{r.Path, r.Label}); err != nil {
			return fmt.Errorf("failed to write index row: %w", err)
		}
	}
	w.Flush()

	return w.Error()
}

// Read parses an index file. A missing header, wrong column count or empty
// field aborts with a descriptive error naming the offending row.
func Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index file %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 2

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed index file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("index file %s is empty", path)
	}
	if rows[0][0] != header[0] || rows[0][1] != header[1] {
		return nil, fmt.Errorf("index file %s has unexpected header %v", path, rows[0])
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if row[0] == "" || row[1] == "" {
			return nil, fmt.Errorf("index file %s row %d has an empty field", path, i+2)
		}
		records = append(records, Record{Path: row[0], Label: row[1]})
	}

	return records, nil
}
