package main

import (
	"fmt"

	"github.com/chinmay-sawant/fontresolve/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify the resolver configuration",
	}

	showCmd := &cobra.Command{
		Use:  "show",
		RunE: runConfigShow,
	}

	setCmd := &cobra.Command{
		Use:  "set <key> <value>",
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	}

	resetCmd := &cobra.Command{
		Use:  "reset",
		RunE: runConfigReset,
	}

	exportCmd := &cobra.Command{
		Use:  "export <path>",
		Args: cobra.ExactArgs(1),
		RunE: runConfigExport,
	}

	importCmd := &cobra.Command{
		Use:  "import <path>",
		Args: cobra.ExactArgs(1),
		RunE: runConfigImport,
	}

	configCmd.AddCommand(showCmd, setCmd, resetCmd, exportCmd, importCmd)
	return configCmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", cfg)
	return nil
}

// runConfigSet is the CLI's only non-zero exit besides a parse error, per
// spec.md §6: an invalid key or value returns an error from internal/config.
func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.Set(&cfg, args[0], args[1]); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	if err := config.Save(config.Default()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "configuration reset to defaults")
	return nil
}

func runConfigExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.SaveTo(cfg, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported configuration to %s\n", args[0])
	return nil
}

func runConfigImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFrom(args[0])
	if err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported configuration from %s\n", args[0])
	return nil
}
