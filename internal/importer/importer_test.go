package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Bar Mark,Length,Qty\nB1,6000,2\nB2,4000,1\n", ','},
		{"semicolon", "Bar Mark;Length;Qty\nB1;6000;2\nB2;4000;1\n", ';'},
		{"tab", "Bar Mark\tLength\tQty\nB1\t6000\t2\nB2\t4000\t1\n", '\t'},
		{"pipe", "Bar Mark|Length|Qty\nB1|6000|2\nB2|4000|1\n", '|'},
		{"title row", "Beams schedule\nBar Mark;Length;Qty\nB1;6000;2\n", ';'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Bar Mark", "Length", "Quantity"})
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.BarMark != 0 || mapping.Length != 1 || mapping.Quantity != 2 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_ScheduleHeaders(t *testing.T) {
	row := []string{"Member", "Bar Mark", "Dia (mm)", "Rebar Length(mm)", "Quantity", "", ""}
	mapping, isHeader := DetectColumns(row)
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.BarMark != 1 {
		t.Errorf("expected BarMark at 1, got %d", mapping.BarMark)
	}
	if mapping.Length != 3 {
		t.Errorf("expected Length at 3, got %d", mapping.Length)
	}
	if mapping.Quantity != 4 {
		t.Errorf("expected Quantity at 4, got %d", mapping.Quantity)
	}
}

func TestDetectColumns_CaseAndSpacing(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"  BAR   MARK ", "QTY", "REBAR LENGTH (MM)"})
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.BarMark != 0 || mapping.Quantity != 1 || mapping.Length != 2 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"B1", "6000", "2"})
	if isHeader {
		t.Error("expected no header")
	}
	if mapping.BarMark != 0 || mapping.Length != 1 || mapping.Quantity != 2 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

func TestDetectColumns_MissingQuantityIsNotHeader(t *testing.T) {
	if _, isHeader := DetectColumns([]string{"Bar Mark", "Length"}); isHeader {
		t.Error("a row without a quantity column must not count as header")
	}
}

// ─── CSV Reader Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Bar Mark,Rebar Length(mm),Quantity\nB1,6000,2\nB2,4500.5,3\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[0].BarMark != "B1" || result.Items[0].Length != 6000 || result.Items[0].Quantity != 2 {
		t.Errorf("unexpected first item %+v", result.Items[0])
	}
	if result.Items[1].Length != 4500.5 {
		t.Errorf("expected length 4500.5, got %f", result.Items[1].Length)
	}
}

func TestImportCSVFromReader_ScheduleLayout(t *testing.T) {
	// Title row, header with extra columns, trailing empty columns
	data := strings.Join([]string{
		"BBS - Beams,,,,,,,,",
		"Member,Bar Mark,Dia,Rebar Length(mm),Quantity,,,,",
		"B-101,BM1,16,7200,4,,,,",
		"B-101,BM2,12,3100,6,,,,",
		",,,,,,,,",
		"B-102,BM3,16,2500,2,,,,",
	}, "\n")
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(result.Items))
	}
	if result.Items[2].BarMark != "BM3" || result.Items[2].Length != 2500 {
		t.Errorf("unexpected item %+v", result.Items[2])
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "title row") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a title row warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "B1,6000,2\nB2,4000,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d (errors: %v)", len(result.Items), result.Errors)
	}
}

func TestImportCSVFromReader_UnrecognisedHeaderSkipped(t *testing.T) {
	data := "Code,Size,Pieces wanted\nB1,6000,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}
}

func TestImportCSVFromReader_SemicolonDelimiter(t *testing.T) {
	data := "Bar Mark;Length;Qty\nB1;6000;2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ';')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}
}

func TestImportCSVFromReader_ReorderedColumns(t *testing.T) {
	data := "Qty,Length,Mark\n2,6000,B1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	it := result.Items[0]
	if it.BarMark != "B1" || it.Length != 6000 || it.Quantity != 2 {
		t.Errorf("unexpected item %+v", it)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

func TestImportCSVFromReader_InvalidRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"invalid length", "B1,abc,2", "Invalid length"},
		{"missing length", "B1,,2", "Missing length"},
		{"invalid quantity", "B1,6000,two", "Invalid quantity"},
		{"fractional quantity", "B1,6000,1.5", "Invalid quantity"},
		{"negative length", "B1,-6000,2", "must be positive"},
		{"zero quantity", "B1,6000,0", "must be positive"},
		{"infinite length", "B1,Inf,2", "Invalid length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := "Bar Mark,Length,Quantity\n" + tt.row + "\n"
			result := ImportCSVFromReader(strings.NewReader(data), ',')
			if len(result.Items) != 0 {
				t.Errorf("expected no items, got %d", len(result.Items))
			}
			if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := "Bar Mark,Length,Quantity\nB1,6000,2\nB2,bad,1\nB3,2000,4\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 2 {
		t.Errorf("expected 2 valid items, got %d", len(result.Items))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %d: %v", len(result.Errors), result.Errors)
	}
	if !strings.HasPrefix(result.Errors[0], "Line 3:") {
		t.Errorf("expected error on line 3, got %q", result.Errors[0])
	}
}

func TestImportCSVFromReader_SpreadsheetQuantity(t *testing.T) {
	data := "Bar Mark,Length,Quantity\nB1,6000,4.0\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 1 || result.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %+v (errors: %v)", result.Items, result.Errors)
	}
}

func TestImportCSVFromReader_EmptyBarMark(t *testing.T) {
	data := "Bar Mark,Length,Quantity\n,6000,2\nB2,3000,1\n,2000,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(result.Items))
	}
	if result.Items[0].BarMark != "BM1" {
		t.Errorf("expected generated mark BM1, got %q", result.Items[0].BarMark)
	}
	if result.Items[2].BarMark != "BM3" {
		t.Errorf("expected generated mark BM3, got %q", result.Items[2].BarMark)
	}
}

func TestImportCSVFromReader_RepeatedBarMark(t *testing.T) {
	data := "Bar Mark,Length,Quantity\nB1,6000,2\nB1,6000,3\nB1,5000,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 merged item, got %d", len(result.Items))
	}
	if result.Items[0].Quantity != 5 {
		t.Errorf("expected merged quantity 5, got %d", result.Items[0].Quantity)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "repeated with length 5000") {
		t.Errorf("expected conflicting length error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_OnlyHeaders(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Bar Mark,Length,Quantity\n"), ',')
	if len(result.Items) != 0 {
		t.Errorf("expected 0 items for header-only file, got %d", len(result.Items))
	}
}

// ─── CSV File Tests ────────────────────────────────────────

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestImportCSV_File(t *testing.T) {
	path := writeFile(t, "demand.csv", "Bar Mark,Length,Quantity\nB1,6000,2\nB2,4000,1\n")
	result := ImportCSV(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(result.Items))
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := writeFile(t, "demand.csv", "Bar Mark;Length;Quantity\nB1;6000;2\n")
	result := ImportCSV(path)

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected semicolon delimiter warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/demand.csv")
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	result := ImportCSV(writeFile(t, "empty.csv", "  \n"))
	if len(result.Errors) == 0 || result.Errors[0] != "File is empty" {
		t.Errorf("expected empty file error, got %v", result.Errors)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demand.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save test Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Beam schedule"},
		{"Bar Mark", "Rebar Length(mm)", "Quantity"},
		{"B1", 6000, 2},
		{"B2", 4500.5, 3},
	})
	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[1].Length != 4500.5 || result.Items[1].Quantity != 3 {
		t.Errorf("unexpected item %+v", result.Items[1])
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Bar Mark", "Length", "Quantity"},
		{"B1", "long", 2},
	})
	result := ImportExcel(path)

	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Row 2:") {
		t.Errorf("expected one error on row 2, got %v", result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/demand.xlsx")
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportFile_DispatchesOnExtension(t *testing.T) {
	xlsx := createTestExcel(t, [][]interface{}{
		{"Bar Mark", "Length", "Quantity"},
		{"B1", 6000, 2},
	})
	if got := ImportFile(xlsx); len(got.Items) != 1 {
		t.Errorf("xlsx: expected 1 item, got %d (errors: %v)", len(got.Items), got.Errors)
	}

	csvPath := writeFile(t, "demand.CSV", "B1,6000,2\n")
	if got := ImportFile(csvPath); len(got.Items) != 1 {
		t.Errorf("csv: expected 1 item, got %d (errors: %v)", len(got.Items), got.Errors)
	}
}
