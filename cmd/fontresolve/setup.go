package main

import (
	"os"

	"github.com/chinmay-sawant/fontresolve/internal/config"
	"github.com/spf13/cobra"
)

func runSetup(cmd *cobra.Command, args []string) error {
	cfg := config.RunInteractiveSetup(os.Stdin, cmd.OutOrStdout())
	return config.Save(cfg)
}
