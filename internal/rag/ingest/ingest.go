package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/CareerRAG/internal/data/registry"
	"github.com/akolanti/CareerRAG/internal/domain/apperrors"
	"github.com/akolanti/CareerRAG/internal/domain/recordModel"
	"github.com/akolanti/CareerRAG/pkg/logger_i"
)

var logger = logger_i.NewLogger("CSV Ingestion")

// ReadTable parses raw CSV rows. Column names are positional - whatever the
// file's first line says is read as data like every other line.
func ReadTable(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse CSV: %w", err)
	}
	return rows, nil
}

// Validate applies the structural checks: non-empty table, all 12 positional
// columns present, and the uni_name / rec_content columns not entirely blank.
// The message names what failed.
func Validate(rows [][]string) (bool, string) {
	if len(rows) == 0 {
		return false, "CSV file is empty"
	}

	maxWidth := 0
	for _, row := range rows {
		if len(row) > maxWidth {
			maxWidth = len(row)
		}
	}
	if maxWidth < len(recordModel.ExpectedColumns) {
		missing := recordModel.ExpectedColumns[maxWidth:]
		return false, "Missing required columns: " + strings.Join(missing, ", ")
	}

	if columnEmpty(rows, columnIndex("uni_name")) {
		return false, "University name column is empty"
	}
	if columnEmpty(rows, columnIndex("rec_content")) {
		return false, "Content column is empty"
	}
	return true, "Valid CSV structure"
}

// ToRecords maps raw rows onto the fixed schema. Short rows are padded with
// empty strings, never nulls.
func ToRecords(rows [][]string) []recordModel.Record {
	records := make([]recordModel.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, recordModel.Record{
			RecID:        field(row, 0),
			UniID:        field(row, 1),
			UniName:      field(row, 2),
			DeptID:       field(row, 3),
			DeptName:     field(row, 4),
			Description:  field(row, 5),
			RecURL:       field(row, 6),
			DateCreated:  field(row, 7),
			DateModified: field(row, 8),
			UserRating:   field(row, 9),
			Tags:         field(row, 10),
			RecContent:   field(row, 11),
		})
	}
	return records
}

// IngestReader parses and validates one CSV stream into a named dataset.
// The university display name comes from the second row's uni_name value.
func IngestReader(r io.Reader) (*recordModel.Dataset, error) {
	rows, err := ReadTable(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if ok, message := Validate(rows); !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, message)
	}

	records := ToRecords(rows)
	name, err := extractUniversityName(records)
	if err != nil {
		return nil, err
	}

	return &recordModel.Dataset{Name: name, Records: records}, nil
}

func IngestFile(path string) (*recordModel.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()
	return IngestReader(f)
}

// PreloadDirectory ingests every CSV in dir at startup. A bad or duplicate
// file is logged and skipped - it never aborts the scan.
func PreloadDirectory(dir string, reg *registry.Registry) {
	if _, err := os.Stat(dir); err != nil {
		logger.Warn("Data directory not found", "dir", dir)
		return
	}

	csvFiles, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		logger.Error("Could not scan data directory", "dir", dir, "error", err)
		return
	}

	for _, csvFile := range csvFiles {
		if strings.Contains(csvFile, "Zone.Identifier") || strings.HasSuffix(csvFile, ".tmp") {
			continue
		}

		logger.Info("Loading CSV file", "file", csvFile)
		dataset, err := IngestFile(csvFile)
		if err != nil {
			logger.Warn("Skipping invalid CSV file", "file", csvFile, "error", err)
			continue
		}

		if err := reg.Add(dataset); err != nil {
			//directory preload skips duplicates silently, unlike upload
			logger.Info("University already loaded, skipping duplicate", "name", dataset.Name)
			continue
		}
		logger.Info("Successfully preloaded university", "name", dataset.Name, "records", len(dataset.Records))
	}

	logger.Info("Preload finished", "universities", reg.Count())
}

func extractUniversityName(records []recordModel.Record) (string, error) {
	// The name is read from row index 1, not 0 - row 0 may be a
	// placeholder/header-like row.
	if len(records) < 2 {
		return "", fmt.Errorf("%w: could not determine university name, need at least two rows", apperrors.ErrValidation)
	}
	name := strings.TrimSpace(records[1].UniName)
	if name == "" {
		return "", fmt.Errorf("%w: could not determine university name", apperrors.ErrValidation)
	}
	return name, nil
}

func columnIndex(name string) int {
	for i, col := range recordModel.ExpectedColumns {
		if col == name {
			return i
		}
	}
	return -1
}

func columnEmpty(rows [][]string, index int) bool {
	for _, row := range rows {
		if strings.TrimSpace(field(row, index)) != "" {
			return false
		}
	}
	return true
}

func field(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}
