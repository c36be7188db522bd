package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/piwi3910/RodCut/internal/engine"
	"github.com/piwi3910/RodCut/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF99")).
			MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF99"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5555"))
)

func renderHelp(cmd *cobra.Command) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("RODCUT %s", Version)))
	if cmd.Long != "" {
		fmt.Fprintln(w, cmd.Long)
	} else {
		fmt.Fprintln(w, cmd.Short)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render("USAGE"))
	fmt.Fprintf(w, "  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(w, titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(w, "  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(w)
	}

	if cmd == cmd.Root() {
		fmt.Fprintln(w, titleStyle.Render("EXAMPLES"))
		fmt.Fprintln(w, "  rodcut solve schedule.csv --formats csv,pdf      # Exact solve, two exports")
		fmt.Fprintln(w, "  rodcut compare schedule.xlsx --stock-lengths 6000,12000")
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, titleStyle.Render("FLAGS"))
	visit := func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		line := fmt.Sprintf("  --%-18s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" && f.DefValue != "[]" {
			line += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintln(w, labelStyle.Render(line))
	}
	cmd.LocalFlags().VisitAll(visit)
	cmd.InheritedFlags().VisitAll(visit)
	fmt.Fprintln(w)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func row(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", label)), value)
}

func renderSolution(w io.Writer, sol model.Solution, s model.Settings) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("CUTTING PLAN %s", sol.RunID)))
	row(w, "Stock", fmt.Sprintf("%s (%g)", s.StockLabel, sol.StockLength))
	row(w, "Algorithm", string(sol.Algorithm))
	row(w, "Rods used", fmt.Sprintf("%d", sol.RodsUsed))
	row(w, "Lower bound", fmt.Sprintf("%d", sol.LowerBound))
	optimal := yesNo(sol.Optimal)
	if !sol.Optimal {
		optimal = warnStyle.Render(fmt.Sprintf("no, gap %d", sol.Gap()))
	}
	row(w, "Proven optimal", optimal)
	row(w, "Total scrap", fmt.Sprintf("%g", sol.TotalScrap()))
	row(w, "Efficiency", fmt.Sprintf("%.1f%%", sol.Efficiency()))
	if s.RodPrice > 0 {
		row(w, "Material cost", fmt.Sprintf("%.2f", sol.TotalCost(s.RodPrice)))
	}
	row(w, "Duration", fmt.Sprintf("%.2fs", sol.Duration))
	fmt.Fprintln(w)

	for i, p := range sol.Patterns {
		fmt.Fprintf(w, "  %s %s  %s\n",
			labelStyle.Render(fmt.Sprintf("Rod %-3d", i+1)),
			strings.Join(p.BarMarks, " "),
			labelStyle.Render(fmt.Sprintf("scrap %g", p.Scrap)))
	}
	fmt.Fprintln(w)
}

func renderOffcuts(w io.Writer, offcuts []model.Offcut) {
	if len(offcuts) == 0 {
		return
	}
	fmt.Fprintln(w, titleStyle.Render("OFFCUTS"))
	for _, o := range offcuts {
		line := fmt.Sprintf("  rod %d: %g", o.Rod+1, o.Length)
		if o.PricePerRod > 0 {
			line += fmt.Sprintf(" (worth %.2f)", o.PricePerRod)
		}
		fmt.Fprintln(w, line)
	}
	row(w, "Total", fmt.Sprintf("%g", model.TotalOffcutLength(offcuts)))
	fmt.Fprintln(w)
}

func renderComparison(w io.Writer, results []engine.ComparisonResult, price float64) {
	fmt.Fprintln(w, titleStyle.Render("COMPARISON"))
	header := fmt.Sprintf("  %-34s %6s %7s %8s %8s", "Scenario", "Rods", "Pieces", "Waste", "Optimal")
	if price > 0 {
		header += fmt.Sprintf(" %10s", "Cost")
	}
	fmt.Fprintln(w, labelStyle.Render(header))

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "  %-34s %s\n", r.Scenario.Name, errorStyle.Render(r.Err.Error()))
			continue
		}
		line := fmt.Sprintf("  %-34s %6d %7d %7.1f%% %8s", r.Scenario.Name, r.RodsUsed, r.TotalPieces, r.WastePercent, yesNo(r.Solution.Optimal))
		if price > 0 {
			line += fmt.Sprintf(" %10.2f", r.Solution.TotalCost(price))
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
}

func renderEstimate(w io.Writer, est model.PurchaseEstimate, stockLabel string) {
	fmt.Fprintln(w, titleStyle.Render("PURCHASE ESTIMATE"))
	row(w, "Stock", fmt.Sprintf("%s (%g)", stockLabel, est.StockLength))
	row(w, "Total cut", fmt.Sprintf("%g", est.TotalCutLength))
	row(w, "Exact rods", fmt.Sprintf("%.2f", est.RodsNeededExact))
	row(w, "Oversized", fmt.Sprintf("%d", est.OversizedPieces))
	row(w, "Minimum", fmt.Sprintf("%d", est.RodsNeededMin))
	row(w, "With waste", fmt.Sprintf("%d (+%g%%)", est.RodsWithWaste, est.WastePercent))
	if est.PricePerRod > 0 {
		row(w, "Cost", fmt.Sprintf("%.2f", est.EstimatedCost))
	}
	fmt.Fprintln(w)
}

func renderPresets(w io.Writer, inv model.Inventory) {
	fmt.Fprintln(w, titleStyle.Render("STOCK PRESETS"))
	for _, sp := range inv.Stocks {
		line := fmt.Sprintf("  %-8s %-28s %8g", sp.ID, sp.Name, sp.Length)
		if sp.Grade != "" {
			line += "  " + sp.Grade
		}
		if sp.PricePerRod > 0 {
			line += fmt.Sprintf("  %.2f", sp.PricePerRod)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
}
