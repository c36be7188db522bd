package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/RodCut/internal/model"
)

// DXF layer names.
const (
	LayerRod   = "ROD"
	LayerCut   = "CUT"
	LayerScrap = "SCRAP"
	LayerText  = "TEXT"
)

// Drawing geometry in mm, at 1:1 along the rod.
const (
	dxfBarHeight  = 100.0
	dxfRodSpacing = 300.0
	dxfTextHeight = 40.0
)

// ExportDXF draws every used rod as a 1:1 bar outline with a cut line at
// each piece boundary, top to bottom in pattern order. Scrap is crossed out.
func ExportDXF(path string, sol model.Solution) error {
	if len(sol.Patterns) == 0 {
		return fmt.Errorf("no cutting patterns to export")
	}

	d := dxf.NewDrawing()
	for _, l := range []struct {
		name string
		cl   color.ColorNumber
	}{
		{LayerRod, color.White},
		{LayerCut, color.Red},
		{LayerScrap, color.Yellow},
		{LayerText, color.Cyan},
	} {
		if _, err := d.AddLayer(l.name, l.cl, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("add layer %s: %w", l.name, err)
		}
	}

	lengths := make(map[string]float64, len(sol.Items))
	for _, it := range sol.Items {
		lengths[it.BarMark] = it.Length
	}

	for i, p := range sol.Patterns {
		y := -float64(i) * dxfRodSpacing
		if err := drawRodDXF(d, p, lengths, sol.StockLength, i+1, y); err != nil {
			return fmt.Errorf("rod %d: %w", i+1, err)
		}
	}

	return d.SaveAs(path)
}

func drawRodDXF(d *drawing.Drawing, p model.Pattern, lengths map[string]float64, stock float64, num int, y float64) error {
	top := y + dxfBarHeight

	if err := d.ChangeLayer(LayerRod); err != nil {
		return err
	}
	if err := rectDXF(d, 0, y, stock, top); err != nil {
		return err
	}

	if err := d.ChangeLayer(LayerText); err != nil {
		return err
	}
	if _, err := d.Text(fmt.Sprintf("ROD %d", num), -600, y+dxfBarHeight/2-dxfTextHeight/2, 0, dxfTextHeight); err != nil {
		return err
	}

	x := 0.0
	for _, mark := range p.BarMarks {
		next := x + lengths[mark]
		if err := d.ChangeLayer(LayerText); err != nil {
			return err
		}
		label := fmt.Sprintf("%s %.0f", mark, lengths[mark])
		if _, err := d.Text(label, x+20, y+dxfBarHeight/2-dxfTextHeight/2, 0, dxfTextHeight); err != nil {
			return err
		}
		if err := d.ChangeLayer(LayerCut); err != nil {
			return err
		}
		if _, err := d.Line(next, y, 0, next, top, 0); err != nil {
			return err
		}
		x = next
	}

	if p.Scrap > model.LengthTolerance {
		if err := d.ChangeLayer(LayerScrap); err != nil {
			return err
		}
		if _, err := d.Line(x, y, 0, stock, top, 0); err != nil {
			return err
		}
		if _, err := d.Line(x, top, 0, stock, y, 0); err != nil {
			return err
		}
	}
	return nil
}

// rectDXF draws an axis aligned rectangle from four LINE entities.
func rectDXF(d *drawing.Drawing, x1, y1, x2, y2 float64) error {
	corners := [][4]float64{
		{x1, y1, x2, y1},
		{x2, y1, x2, y2},
		{x2, y2, x1, y2},
		{x1, y2, x1, y1},
	}
	for _, c := range corners {
		if _, err := d.Line(c[0], c[1], 0, c[2], c[3], 0); err != nil {
			return err
		}
	}
	return nil
}
