package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/piwi3910/RodCut/internal/importer"
	"github.com/piwi3910/RodCut/internal/model"
	"github.com/piwi3910/RodCut/internal/project"
)

// addSettingsFlags registers the optimizer flags shared by solve and compare.
// The defaults shown in help are the built-in ones; the config file
// replaces them at run time.
func addSettingsFlags(fs *pflag.FlagSet) {
	d := model.DefaultSettings()
	fs.Float64("stock-length", d.StockLength, "length of one stock rod")
	fs.String("stock-label", d.StockLabel, "display name of the stock")
	fs.String("stock-preset", "", "take stock length, label and price from a saved preset (name or ID)")
	fs.String("algorithm", string(d.Algorithm), "exact, greedy or genetic")
	fs.Float64("time-limit", d.TimeLimitSeconds, "solver deadline in seconds, 0 for none")
	fs.Bool("symmetry-breaking", d.SymmetryBreaking, "pre-assign pieces longer than half a rod to their own rods")
	fs.Bool("cutoff", d.Cutoff, "bound the rod count by a greedy packing before the exact solve")
	fs.Int64("seed", d.GeneticSeed, "seed for the genetic search")
	fs.Float64("rod-price", d.RodPrice, "price of one stock rod, 0 if unknown")
	fs.Float64("min-offcut", d.MinOffcutLength, "scrap at least this long is kept as an offcut")
}

// settings resolves the optimizer settings from flags, environment and config.
func (a *app) settings() (model.Settings, error) {
	s := model.DefaultSettings()
	algo, err := model.ParseAlgorithm(a.v.GetString("algorithm"))
	if err != nil {
		return s, err
	}
	s.Algorithm = algo
	s.StockLength = a.v.GetFloat64("stock-length")
	s.StockLabel = a.v.GetString("stock-label")
	s.TimeLimitSeconds = a.v.GetFloat64("time-limit")
	s.SymmetryBreaking = a.v.GetBool("symmetry-breaking")
	s.Cutoff = a.v.GetBool("cutoff")
	s.GeneticSeed = a.v.GetInt64("seed")
	s.RodPrice = a.v.GetFloat64("rod-price")
	s.MinOffcutLength = a.v.GetFloat64("min-offcut")

	if name := a.v.GetString("stock-preset"); name != "" {
		inv, err := project.LoadInventory(a.invPath)
		if err != nil {
			return s, err
		}
		sp := inv.FindStockByID(name)
		if sp == nil {
			sp = inv.FindStockByName(name)
		}
		if sp == nil {
			return s, fmt.Errorf("unknown stock preset %q", name)
		}
		sp.ApplyToSettings(&s)
	}
	return s, nil
}

// loadDemand imports a schedule. Any rejected row fails the import so a
// plan is never cut from partial demand.
func (a *app) loadDemand(path string) ([]model.DemandItem, error) {
	res := importer.ImportFile(path)
	for _, w := range res.Warnings {
		a.logger.Warn("import", "file", path, "warning", w)
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			a.logger.Error("import", "file", path, "error", e)
		}
		return nil, fmt.Errorf("%s: %d row(s) rejected, first: %s", path, len(res.Errors), res.Errors[0])
	}
	if len(res.Items) == 0 {
		return nil, fmt.Errorf("%s: no demand rows found", path)
	}
	a.logger.Debug("imported demand", "file", path, "items", len(res.Items))
	return res.Items, nil
}
