package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/RodCut/internal/model"
)

// LabelInfo holds the data encoded into each piece label's QR code.
type LabelInfo struct {
	BarMark    string  `json:"bar_mark"`
	Length     float64 `json:"length_mm"`
	Rod        int     `json:"rod"`   // 1-based, in pattern order
	Piece      int     `json:"piece"` // 1-based position on the rod
	Offset     float64 `json:"offset_mm"`
	StockLabel string  `json:"stock_label"`
	RunID      string  `json:"run_id,omitempty"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per cut piece, laid
// out on Avery 5160 sheets (3 columns x 10 rows on US Letter).
func ExportLabels(path string, sol model.Solution, stockLabel string) error {
	labels := CollectLabelInfos(sol, stockLabel)
	if len(labels) == 0 {
		return fmt.Errorf("no cut pieces to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.BarMark, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d_%d", info.Rod, info.Piece)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	mark := info.BarMark
	if pdf.GetStringWidth(mark) > textW {
		for len(mark) > 0 && pdf.GetStringWidth(mark+"...") > textW {
			mark = mark[:len(mark)-1]
		}
		mark += "..."
	}
	pdf.CellFormat(textW, 5, mark, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(textX, y+labelPadding+6)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%.0f mm", info.Length), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+10)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Rod %d, piece %d @ %.0f mm", info.Rod, info.Piece, info.Offset), "", 1, "L", false, 0, "")

	if info.StockLabel != "" {
		pdf.SetXY(textX, y+labelPadding+13.5)
		pdf.CellFormat(textW, 3, info.StockLabel, "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos lists one label per cut piece in pattern order. Offset
// is where the piece starts on its rod when cut in pattern order.
func CollectLabelInfos(sol model.Solution, stockLabel string) []LabelInfo {
	lengths := make(map[string]float64, len(sol.Items))
	for _, it := range sol.Items {
		lengths[it.BarMark] = it.Length
	}

	var labels []LabelInfo
	for rodIdx, p := range sol.Patterns {
		offset := 0.0
		for k, mark := range p.BarMarks {
			labels = append(labels, LabelInfo{
				BarMark:    mark,
				Length:     lengths[mark],
				Rod:        rodIdx + 1,
				Piece:      k + 1,
				Offset:     offset,
				StockLabel: stockLabel,
				RunID:      sol.RunID,
			})
			offset += lengths[mark]
		}
	}
	return labels
}
