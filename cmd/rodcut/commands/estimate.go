package commands

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/RodCut/internal/model"
)

func newEstimateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate <schedule>",
		Short: "Estimate how many rods to buy without solving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.loadDemand(args[0])
			if err != nil {
				return err
			}
			s, err := a.settings()
			if err != nil {
				return err
			}
			waste, _ := cmd.Flags().GetFloat64("waste")
			est := model.CalculatePurchaseEstimate(items, s.StockLength, waste, s.RodPrice)
			renderEstimate(cmd.OutOrStdout(), est, s.StockLabel)
			return nil
		},
	}
	addSettingsFlags(cmd.Flags())
	cmd.Flags().Float64("waste", 10, "extra waste allowance in percent")
	return cmd
}
