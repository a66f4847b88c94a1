// Package tabular reads CSV and Excel workbooks into raw string tables.
// All cells come back as strings; type coercion happens downstream in the
// cleaning passes.
package tabular

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"commercepulse/domain/table"
	apperrors "commercepulse/internal/errors"
)

// FormatCSV and FormatXLSX are the supported source formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// DataReader handles reading Excel and CSV files from disk
type DataReader struct {
	filePath string
	format   string
}

// NewDataReader creates a reader for the given path, picking the format
// from the file extension. Anything that is not .csv is treated as xlsx.
func NewDataReader(filePath string) *DataReader {
	format := FormatXLSX
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		format = FormatCSV
	}
	return &DataReader{filePath: filePath, format: format}
}

// Format reports the detected source format
func (r *DataReader) Format() string {
	return r.format
}

// Read loads the file into a raw table of string cells
func (r *DataReader) Read() (*table.Table, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.format, r.filePath)

	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, apperrors.WrapCodef(err, apperrors.CodeDecodeFailed, "open %s file", r.format)
	}
	defer file.Close()

	return ReadFrom(file, r.format)
}

// ReadFrom decodes a CSV or XLSX stream into a raw table. Uploaded files
// come through here directly without touching disk.
func ReadFrom(src io.Reader, format string) (*table.Table, error) {
	switch format {
	case FormatCSV:
		return readCSV(src)
	case FormatXLSX:
		return readXLSX(src)
	default:
		return nil, apperrors.New(apperrors.CodeDecodeFailed, "unsupported file format: "+format)
	}
}

// DetectFormat picks a format from a file name, defaulting to xlsx
func DetectFormat(name string) string {
	if strings.ToLower(filepath.Ext(name)) == ".csv" {
		return FormatCSV
	}
	return FormatXLSX
}

func readCSV(src io.Reader) (*table.Table, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.CodeDecodeFailed, "read CSV data")
	}
	log.Printf("[DataReader] CSV read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return buildTable(rows)
}

func readXLSX(src io.Reader) (*table.Table, error) {
	openStart := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.CodeDecodeFailed, "open Excel workbook")
	}
	defer f.Close()
	log.Printf("[DataReader] Excel workbook opened in %.2fms",
		float64(time.Since(openStart).Nanoseconds())/1e6)

	// Prefer Sheet1, fall back to the first sheet in the workbook
	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.New(apperrors.CodeDecodeFailed, "Excel workbook has no sheets")
		}
		sheet = sheets[0]
	}

	readStart := time.Now()
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.WrapCodef(err, apperrors.CodeDecodeFailed, "read sheet %q", sheet)
	}
	log.Printf("[DataReader] Sheet %q read in %.2fms (%d rows)",
		sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return buildTable(rows)
}

// buildTable turns header + data rows into a raw table of string cells
func buildTable(rows [][]string) (*table.Table, error) {
	if len(rows) < 2 {
		return nil, apperrors.New(apperrors.CodeEmptyDataset,
			"file must have at least a header row and one data row")
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	raw := table.New(headers)
	for _, row := range rows[1:] {
		cells := make([]table.Value, len(headers))
		for i := range headers {
			if i < len(row) {
				cells[i] = table.String(strings.TrimSpace(row[i]))
			} else {
				cells[i] = table.Null()
			}
		}
		raw.AppendRow(cells)
	}

	log.Printf("[DataReader] Built raw table: %d rows, %d columns", raw.RowCount(), len(headers))
	return raw, nil
}
