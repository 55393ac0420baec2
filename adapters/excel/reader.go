package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"godiag/domain/core"
	"godiag/domain/diagnostics"

	"github.com/xuri/excelize/v2"
)

// BatchReader reads batch experiment submissions from Excel and CSV files.
// Each data row is one summarized experiment: a name, a technique, and the
// four confusion matrix cells.
type BatchReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewBatchReader creates a reader that handles both Excel and CSV files
func NewBatchReader(filePath string) *BatchReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &BatchReader{filePath: filePath, fileType: fileType}
}

// RowError records a data row that failed validation. Row numbers are
// 1-based file positions, so the first data row under the header is row 2.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// BatchResult holds the experiments that parsed cleanly plus the rows that
// did not. A file with some bad rows still yields its good rows.
type BatchResult struct {
	Experiments []diagnostics.Experiment
	RowErrors   []RowError
}

// Header aliases accepted for each experiment field, lowercased
var headerAliases = map[string][]string{
	"name":       {"name", "experiment", "experiment_name"},
	"technique":  {"technique", "method", "assay"},
	"tp":         {"tp", "true_positive", "true_positives"},
	"fp":         {"fp", "false_positive", "false_positives"},
	"tn":         {"tn", "true_negative", "true_negatives"},
	"fn":         {"fn", "false_negative", "false_negatives"},
	"confidence": {"confidence", "confidence_level"},
}

// Read parses the file into validated experiments
func (r *BatchReader) Read() (*BatchResult, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

func (r *BatchReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func (r *BatchReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// processRows resolves the header layout then validates each data row
func (r *BatchReader) processRows(rows [][]string) (*BatchResult, error) {
	columns, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	result := &BatchResult{}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		experiment, err := parseRow(row, columns)
		if err != nil {
			result.RowErrors = append(result.RowErrors, RowError{Row: i + 1, Err: err})
			continue
		}
		result.Experiments = append(result.Experiments, *experiment)
	}

	return result, nil
}

// columnMap maps canonical field names to column indices, -1 when absent
type columnMap map[string]int

// resolveColumns matches the header row against the accepted aliases. The
// name, technique, and the four count columns are required; confidence is
// optional.
func resolveColumns(headerRow []string) (columnMap, error) {
	columns := columnMap{}
	for field := range headerAliases {
		columns[field] = -1
	}

	for idx, header := range headerRow {
		normalized := strings.ToLower(strings.TrimSpace(header))
		for field, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					columns[field] = idx
				}
			}
		}
	}

	for _, required := range []string{"name", "technique", "tp", "fp", "tn", "fn"} {
		if columns[required] == -1 {
			return nil, fmt.Errorf("missing required column %q (accepted: %s)",
				required, strings.Join(headerAliases[required], ", "))
		}
	}

	return columns, nil
}

func parseRow(row []string, columns columnMap) (*diagnostics.Experiment, error) {
	name := cellAt(row, columns["name"])
	technique, err := core.ParseTechniqueKey(cellAt(row, columns["technique"]))
	if err != nil {
		return nil, err
	}

	tp, err := parseCount(cellAt(row, columns["tp"]), "tp")
	if err != nil {
		return nil, err
	}
	fp, err := parseCount(cellAt(row, columns["fp"]), "fp")
	if err != nil {
		return nil, err
	}
	tn, err := parseCount(cellAt(row, columns["tn"]), "tn")
	if err != nil {
		return nil, err
	}
	fn, err := parseCount(cellAt(row, columns["fn"]), "fn")
	if err != nil {
		return nil, err
	}

	confidence := 0.95
	if idx := columns["confidence"]; idx != -1 {
		if raw := cellAt(row, idx); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid confidence %q", raw)
			}
			confidence = parsed
		}
	}

	counts, err := diagnostics.NewConfusionCounts(tp, fp, tn, fn)
	if err != nil {
		return nil, err
	}

	return diagnostics.NewExperiment(name, technique, counts, confidence)
}

func parseCount(raw, field string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("missing %s value", field)
	}
	// Excel often surfaces integer cells as "85.0"
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", field, raw)
	}
	if value != float64(int(value)) {
		return 0, fmt.Errorf("%s value %q is not a whole number", field, raw)
	}
	return int(value), nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
