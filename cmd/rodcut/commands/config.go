package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/RodCut/internal/model"
	"github.com/piwi3910/RodCut/internal/project"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the application config",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(a.cfgPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", a.cfgPath)
			}
			a.cfg = model.DefaultAppConfig()
			if err := a.saveConfig(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Wrote "+a.cfgPath))
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the loaded config as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(a.cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Back up the config and stock presets to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := project.LoadInventory(a.invPath)
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], a.cfg, inv); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Wrote "+args[0]))
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore the config and stock presets from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			a.cfg = data.Config
			if err := a.saveConfig(); err != nil {
				return err
			}
			if err := project.SaveInventory(a.invPath, data.Inventory); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf(
				"Restored config and %d stock preset(s) from backup %s", len(data.Inventory.Stocks), data.Version)))
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd, exportCmd, importCmd)
	return cmd
}
