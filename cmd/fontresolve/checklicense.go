package main

import (
	"context"
	"fmt"

	"github.com/chinmay-sawant/fontresolve/internal/license"
	"github.com/spf13/cobra"
)

func runCheckLicense(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg, true)
	if err != nil {
		return err
	}

	result, err := orch.Resolve(context.Background(), args[0])
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), err)
		return nil
	}

	checker := license.NewChecker()
	fmt.Fprintln(cmd.OutOrStdout(), checker.Summary(result.Font))
	return nil
}
