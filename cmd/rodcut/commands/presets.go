package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RodCut/internal/project"
)

func newPresetsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List and import stock presets",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the saved stock presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := project.LoadInventory(a.invPath)
			if err != nil {
				return err
			}
			renderPresets(cmd.OutOrStdout(), inv)
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge stock presets from another inventory file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := project.LoadInventory(a.invPath)
			if err != nil {
				return err
			}
			before := len(inv.Stocks)
			merged, err := project.ImportInventory(args[0], inv)
			if err != nil {
				return err
			}
			if err := project.SaveInventory(a.invPath, merged); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("Imported %d preset(s)", len(merged.Stocks)-before)))
			return nil
		},
	}

	cmd.AddCommand(listCmd, importCmd)
	return cmd
}
