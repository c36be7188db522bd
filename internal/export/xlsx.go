package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/RodCut/internal/model"
)

const (
	patternsSheet = "Patterns"
	demandSheet   = "Demand"
	summarySheet  = "Summary"
)

// ExportXLSX writes a workbook with the cutting patterns, the demand
// coverage and a summary sheet.
func ExportXLSX(path string, sol model.Solution, settings model.Settings) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), patternsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(demandSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	patternRows := [][]interface{}{{"Rod", "Pattern", "Pieces", "Used (mm)", "Scrap (mm)", "Efficiency (%)"}}
	for i, p := range sol.Patterns {
		patternRows = append(patternRows, []interface{}{
			i + 1, strings.Join(p.BarMarks, " "), len(p.BarMarks), p.Used, p.Scrap, round1(p.Efficiency()),
		})
	}
	if err := writeRows(f, patternsSheet, patternRows, bold); err != nil {
		return err
	}

	cut := sol.PieceCounts()
	demandRows := [][]interface{}{{"Bar Mark", "Length (mm)", "Required", "Cut"}}
	for _, it := range sol.Items {
		demandRows = append(demandRows, []interface{}{it.BarMark, it.Length, it.Quantity, cut[it.BarMark]})
	}
	if err := writeRows(f, demandSheet, demandRows, bold); err != nil {
		return err
	}

	summaryRows := [][]interface{}{
		{"Property", "Value"},
		{"Run", sol.RunID},
		{"Stock", settings.StockLabel},
		{"Stock length (mm)", sol.StockLength},
		{"Algorithm", string(sol.Algorithm)},
		{"Rods used", sol.RodsUsed},
		{"Lower bound", sol.LowerBound},
		{"Proven optimal", sol.Optimal},
		{"Total scrap (mm)", sol.TotalScrap()},
		{"Efficiency (%)", round1(sol.Efficiency())},
	}
	if settings.RodPrice > 0 {
		summaryRows = append(summaryRows, []interface{}{"Material cost", sol.TotalCost(settings.RodPrice)})
	}
	if err := writeRows(f, summarySheet, summaryRows, bold); err != nil {
		return err
	}

	if err := f.SetColWidth(patternsSheet, "B", "B", 50); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 22); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// writeRows fills sheet from A1 and styles the first row as a header.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", end, headerStyle)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
