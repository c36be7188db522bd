package commands

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/RodCut/internal/engine"
)

func newCompareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <schedule>",
		Short: "Compare algorithms or stock lengths side by side",
		Long: `Solves the schedule once per scenario. Without --stock-lengths the
scenarios are the current settings and each alternative algorithm.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.loadDemand(args[0])
			if err != nil {
				return err
			}
			base, err := a.settings()
			if err != nil {
				return err
			}

			scenarios := engine.BuildDefaultScenarios(base)
			if lengths, _ := cmd.Flags().GetFloat64Slice("stock-lengths"); len(lengths) > 0 {
				scenarios = engine.CompareStockLengths(base, lengths)
			}

			results := engine.CompareScenarios(cmd.Context(), scenarios, items, engine.WithLogger(a.logger))
			renderComparison(cmd.OutOrStdout(), results, base.RodPrice)
			return nil
		},
	}
	addSettingsFlags(cmd.Flags())
	cmd.Flags().Float64Slice("stock-lengths", nil, "candidate stock lengths, one scenario each")
	return cmd
}
