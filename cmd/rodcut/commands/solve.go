package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RodCut/internal/engine"
	"github.com/piwi3910/RodCut/internal/export"
	"github.com/piwi3910/RodCut/internal/model"
	"github.com/piwi3910/RodCut/internal/project"
)

// exportFiles maps each --formats value to the file it writes.
var exportFiles = map[string]string{
	"csv":    "results.csv",
	"xlsx":   "cutting-plan.xlsx",
	"pdf":    "cutting-plan.pdf",
	"labels": "labels.pdf",
	"dxf":    "cutting-plan.dxf",
	"json":   "project.json",
}

func newSolveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <schedule>",
		Short: "Optimize a schedule and write the cutting plan",
		Long: `Reads a CSV or Excel bar bending schedule, cuts it from the fewest
stock rods and writes the selected exports to the output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.solve(cmd, args[0])
		},
	}
	addSettingsFlags(cmd.Flags())
	cmd.Flags().String("output-dir", "output", "directory for the exported files")
	cmd.Flags().StringSlice("formats", []string{"csv"}, "exports to write: csv, xlsx, pdf, labels, dxf, json")
	cmd.Flags().Bool("save-offcuts", false, "add reusable offcuts to the stock presets")
	return cmd
}

func (a *app) solve(cmd *cobra.Command, path string) error {
	formats, err := parseFormats(a.v.GetStringSlice("formats"))
	if err != nil {
		return err
	}
	items, err := a.loadDemand(path)
	if err != nil {
		return err
	}
	s, err := a.settings()
	if err != nil {
		return err
	}

	sol, err := engine.New(s, engine.WithLogger(a.logger)).Optimize(cmd.Context(), items)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	renderSolution(w, sol, s)

	offcuts := model.DetectOffcuts(sol, s.StockLabel, s.MinOffcutLength, s.RodPrice)
	renderOffcuts(w, offcuts)
	if a.v.GetBool("save-offcuts") && len(offcuts) > 0 {
		if err := a.saveOffcuts(offcuts); err != nil {
			return err
		}
		fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("Saved %d offcut(s) to %s", len(offcuts), a.invPath)))
	}

	dir := a.v.GetString("output-dir")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, format := range formats {
		out := filepath.Join(dir, exportFiles[format])
		if err := a.writeExport(format, out, path, items, sol, s); err != nil {
			return fmt.Errorf("%s export: %w", format, err)
		}
		a.logger.Info("wrote export", "format", format, "path", out)
		fmt.Fprintln(w, "  "+labelStyle.Render(fmt.Sprintf("%-7s", format))+out)
	}
	return nil
}

func (a *app) writeExport(format, out, source string, items []model.DemandItem, sol model.Solution, s model.Settings) error {
	switch format {
	case "csv":
		return export.ExportCSV(out, sol)
	case "xlsx":
		return export.ExportXLSX(out, sol, s)
	case "pdf":
		return export.ExportPDF(out, sol, s)
	case "labels":
		return export.ExportLabels(out, sol, s.StockLabel)
	case "dxf":
		return export.ExportDXF(out, sol)
	case "json":
		p := model.NewProject()
		p.Name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		p.Items = items
		p.Settings = s
		p.Result = &sol
		if err := project.SaveProject(out, p); err != nil {
			return err
		}
		if abs, err := filepath.Abs(out); err == nil {
			out = abs
		}
		a.cfg.AddRecentProject(out, maxRecentProjects)
		return a.saveConfig()
	}
	return fmt.Errorf("unknown format %q", format)
}

// parseFormats accepts repeated flags as well as comma separated values
// from the environment.
func parseFormats(values []string) ([]string, error) {
	var formats []string
	seen := make(map[string]bool)
	for _, v := range values {
		for _, f := range strings.Split(v, ",") {
			f = strings.ToLower(strings.TrimSpace(f))
			if f == "" || seen[f] {
				continue
			}
			if _, ok := exportFiles[f]; !ok {
				return nil, fmt.Errorf("unknown export format %q", f)
			}
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

func (a *app) saveOffcuts(offcuts []model.Offcut) error {
	inv, err := project.LoadInventory(a.invPath)
	if err != nil {
		return err
	}
	for _, o := range offcuts {
		inv.AddStock(o.ToStockPreset())
	}
	return project.SaveInventory(a.invPath, inv)
}
