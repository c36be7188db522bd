// Package export writes cutting results to CSV, Excel, PDF, label sheets
// and DXF drawings.
package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/RodCut/internal/model"
)

// markColor represents an RGB color for a bar mark.
type markColor struct {
	R, G, B int
}

var markColors = []markColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 8.0
	rodLabelW    = 18.0 // column left of each bar for the rod number
	rodBarHeight = 9.0
	rodSpacing   = 16.0
	rodsPerPage  = 9
)

// colorIndex assigns each bar mark a stable color by its item position.
func colorIndex(sol model.Solution) map[string]markColor {
	colors := make(map[string]markColor, len(sol.Items))
	for i, it := range sol.Items {
		colors[it.BarMark] = markColors[i%len(markColors)]
	}
	return colors
}

// ExportPDF writes a cutting report: bar diagrams for every used rod,
// rodsPerPage to a page, followed by a summary page.
func ExportPDF(path string, sol model.Solution, settings model.Settings) error {
	if len(sol.Patterns) == 0 {
		return fmt.Errorf("no cutting patterns to export")
	}
	if sol.StockLength <= 0 {
		return fmt.Errorf("invalid stock length %g", sol.StockLength)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	colors := colorIndex(sol)

	pages := (len(sol.Patterns) + rodsPerPage - 1) / rodsPerPage
	for page := 0; page < pages; page++ {
		pdf.AddPage()
		start := page * rodsPerPage
		end := start + rodsPerPage
		if end > len(sol.Patterns) {
			end = len(sol.Patterns)
		}
		renderPatternPage(pdf, sol, settings, colors, start, end, page+1, pages)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, sol, settings)

	return pdf.OutputFileAndClose(path)
}

func renderPatternPage(pdf *fpdf.Fpdf, sol model.Solution, settings model.Settings, colors map[string]markColor, start, end, page, pages int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Cutting patterns: %s (%.0f mm)", settings.StockLabel, sol.StockLength)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Rods %d-%d of %d | Page %d of %d", start+1, end, len(sol.Patterns), page, pages)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	barX := marginLeft + rodLabelW
	barW := pageWidth - marginRight - barX
	scale := barW / sol.StockLength

	for n, p := range sol.Patterns[start:end] {
		y := drawAreaTop + float64(n)*rodSpacing
		drawRod(pdf, sol, p, colors, start+n+1, barX, y, scale)
	}
}

// drawRod renders one rod as a bar of cut segments followed by the scrap.
func drawRod(pdf *fpdf.Fpdf, sol model.Solution, p model.Pattern, colors map[string]markColor, num int, x, y, scale float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y+rodBarHeight/2-2)
	pdf.CellFormat(rodLabelW-2, 4, fmt.Sprintf("Rod %d", num), "", 0, "L", false, 0, "")

	lengths := make(map[string]float64, len(sol.Items))
	for _, it := range sol.Items {
		lengths[it.BarMark] = it.Length
	}

	px := x
	for _, mark := range p.BarMarks {
		w := lengths[mark] * scale
		col := colors[mark]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, y, w, rodBarHeight, "FD")

		pdf.SetFont("Helvetica", "", 7)
		if label := mark; pdf.GetStringWidth(label) < w-1 {
			lw := pdf.GetStringWidth(label)
			pdf.SetXY(px+(w-lw)/2, y+1)
			pdf.CellFormat(lw, 3.5, label, "", 0, "C", false, 0, "")
		}
		if dims := fmt.Sprintf("%.0f", lengths[mark]); pdf.GetStringWidth(dims) < w-1 {
			dw := pdf.GetStringWidth(dims)
			pdf.SetXY(px+(w-dw)/2, y+4.5)
			pdf.CellFormat(dw, 3.5, dims, "", 0, "C", false, 0, "")
		}
		px += w
	}

	if sw := p.Scrap * scale; sw > 0.2 {
		pdf.SetFillColor(220, 220, 220)
		pdf.SetDrawColor(120, 120, 120)
		pdf.SetLineWidth(0.2)
		pdf.Rect(px, y, sw, rodBarHeight, "FD")
		drawHatchPattern(pdf, px, y, sw, rodBarHeight)
	}

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(x, y+rodBarHeight+0.5)
	caption := fmt.Sprintf("Used %.0f mm | Scrap %.0f mm | %.1f%%", p.Used, p.Scrap, p.Efficiency())
	pdf.CellFormat(80, 3.5, caption, "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark scrap.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.15)

	spacing := 2.5
	for d := spacing; d < w+h; d += spacing {
		x1 := x + max(0, d-h)
		y1 := y + min(h, d)
		x2 := x + min(w, d)
		y2 := y + max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

type summaryItem struct {
	label string
	value string
}

func renderSummaryPage(pdf *fpdf.Fpdf, sol model.Solution, settings model.Settings) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cutting Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	optimal := "no"
	if sol.Optimal {
		optimal = "yes"
	}
	summaryItems := []summaryItem{
		{"Rods Used", fmt.Sprintf("%d", sol.RodsUsed)},
		{"Lower Bound", fmt.Sprintf("%d", sol.LowerBound)},
		{"Proven Optimal", optimal},
		{"Total Scrap", fmt.Sprintf("%.0f mm", sol.TotalScrap())},
		{"Efficiency", fmt.Sprintf("%.1f%%", sol.Efficiency())},
		{"Algorithm", string(sol.Algorithm)},
	}
	if settings.RodPrice > 0 {
		summaryItems = append(summaryItems, summaryItem{"Material Cost", fmt.Sprintf("%.2f", sol.TotalCost(settings.RodPrice))})
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Demand", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{50, 50, 40, 40}
	headers := []string{"Bar Mark", "Length", "Required", "Cut"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	cut := sol.PieceCounts()
	pdf.SetFont("Helvetica", "", 9)
	for i, it := range sol.Items {
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
		rowData := []string{
			it.BarMark,
			fmt.Sprintf("%g mm", it.Length),
			fmt.Sprintf("%d", it.Quantity),
			fmt.Sprintf("%d", cut[it.BarMark]),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	footer := fmt.Sprintf("Generated by RodCut - run %s", sol.RunID)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, footer, "", 0, "C", false, 0, "")
}
