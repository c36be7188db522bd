// Package importer reads bar bending schedules from CSV and Excel files.
// It detects the delimiter, skips title rows above the header and maps
// columns by case-insensitive header aliases.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/RodCut/internal/model"
)

// maxTitleRows is how far down the header row is searched for.
const maxTitleRows = 10

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Items    []model.DemandItem
	Errors   []string
	Warnings []string
}

// ColumnMapping maps column roles to their indices in the data.
type ColumnMapping struct {
	BarMark  int
	Length   int
	Quantity int
}

// headerAliases maps column roles to their accepted header names (lowercase,
// inner spaces collapsed).
var headerAliases = map[string][]string{
	"barmark":  {"bar mark", "barmark", "bar_mark", "mark", "bm", "label", "name", "id", "item"},
	"length":   {"rebar length(mm)", "rebar length (mm)", "length(mm)", "length (mm)", "length", "len", "cut length", "cutting length", "l"},
	"quantity": {"quantity", "qty", "count", "num", "no.", "no", "pcs", "pieces", "number"},
}

// DetectCSVDelimiter determines the most likely CSV delimiter among comma,
// semicolon, tab and pipe. The delimiter that produces the most consistent
// multi-column rows wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Title rows are often a single cell, so score against the widest row.
		cols := 0
		for _, row := range records {
			if len(row) > cols {
				cols = len(row)
			}
		}
		if cols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == cols {
				score++
			}
		}

		weighted := score*10 + cols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

func normalizeHeader(cell string) string {
	return strings.Join(strings.Fields(strings.ToLower(cell)), " ")
}

// DetectColumns examines a row and returns its ColumnMapping. The boolean is
// true when the row is a header naming at least the length and quantity
// columns; otherwise the positional mapping bar mark, length, quantity is
// returned.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{BarMark: -1, Length: -1, Quantity: -1}

	for i, cell := range row {
		name := normalizeHeader(cell)
		if name == "" {
			continue
		}
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if name != alias {
					continue
				}
				switch role {
				case "barmark":
					if mapping.BarMark == -1 {
						mapping.BarMark = i
					}
				case "length":
					if mapping.Length == -1 {
						mapping.Length = i
					}
				case "quantity":
					if mapping.Quantity == -1 {
						mapping.Quantity = i
					}
				}
			}
		}
	}

	if mapping.Length == -1 || mapping.Quantity == -1 {
		return ColumnMapping{BarMark: 0, Length: 1, Quantity: 2}, false
	}
	return mapping, true
}

// getCell safely retrieves a trimmed cell value. Out of range indices yield "".
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseQuantity accepts integers as well as integral decimals such as "4.0",
// which spreadsheets like to produce.
func parseQuantity(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("not a whole number")
	}
	return int(f), nil
}

// parseRow extracts a DemandItem from a row using the given column mapping.
// Returns the item and an error message when the row is unusable.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, itemCount int) (model.DemandItem, string) {
	mark := getCell(row, mapping.BarMark)
	if mark == "" {
		mark = fmt.Sprintf("BM%d", itemCount+1)
	}

	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return model.DemandItem{}, fmt.Sprintf("%s: Missing length value", rowLabel)
	}
	length, err := strconv.ParseFloat(lengthStr, 64)
	if err != nil || math.IsNaN(length) || math.IsInf(length, 0) {
		return model.DemandItem{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr)
	}

	qtyStr := getCell(row, mapping.Quantity)
	if qtyStr == "" {
		return model.DemandItem{}, fmt.Sprintf("%s: Missing quantity value", rowLabel)
	}
	qty, err := parseQuantity(qtyStr)
	if err != nil {
		return model.DemandItem{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr)
	}

	if length <= 0 || qty <= 0 {
		return model.DemandItem{}, fmt.Sprintf("%s: Length and quantity must be positive", rowLabel)
	}

	return model.NewDemandItem(mark, length, qty), ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports demand from a CSV file, detecting the delimiter.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports demand from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	records, err := readCSV(reader, delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// ImportExcel imports demand from the first sheet of an .xlsx file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportFile picks the CSV or Excel reader by file extension.
func ImportFile(path string) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return ImportExcel(path)
	}
	return ImportCSV(path)
}

// findHeader returns the index of the first header row within the first
// maxTitleRows rows, or -1.
func findHeader(rows [][]string) (int, ColumnMapping) {
	for i := 0; i < len(rows) && i < maxTitleRows; i++ {
		if mapping, ok := DetectColumns(rows[i]); ok {
			return i, mapping
		}
	}
	mapping, _ := DetectColumns(nil)
	return -1, mapping
}

// importFromRows is the shared import logic for CSV and Excel data. Rows with
// a repeated bar mark are merged when the length matches and rejected
// otherwise.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	startRow := 0
	header, mapping := findHeader(rows)
	if header >= 0 {
		startRow = header + 1
		if header > 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d title row(s) above the header", header))
		}
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	} else if len(rows[0]) >= 2 {
		// No recognised header: a non-numeric length cell means an
		// unrecognised header, which is skipped
		if _, err := strconv.ParseFloat(getCell(rows[0], mapping.Length), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	seen := make(map[string]int)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		item, errMsg := parseRow(row, mapping, rowLabel, len(result.Items))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}

		if idx, dup := seen[item.BarMark]; dup {
			prev := &result.Items[idx]
			if math.Abs(prev.Length-item.Length) > model.LengthTolerance {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: Bar mark '%s' repeated with length %g (was %g)", rowLabel, item.BarMark, item.Length, prev.Length))
				continue
			}
			prev.Quantity += item.Quantity
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Bar mark '%s' repeated, quantities merged", rowLabel, item.BarMark))
			continue
		}
		seen[item.BarMark] = len(result.Items)
		result.Items = append(result.Items, item)
	}

	return result
}
