package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg, true)
	if err != nil {
		return err
	}

	stats := orch.DatabaseStats()
	out := cmd.OutOrStdout()
	if !stats.Loaded {
		fmt.Fprintln(out, "no web font database loaded")
		return nil
	}
	fmt.Fprintf(out, "version:     %s\n", stats.Version)
	fmt.Fprintf(out, "font count:  %d\n", stats.FontCount)
	fmt.Fprintf(out, "compressed:  %d bytes\n", stats.CompressedSizeBytes)
	fmt.Fprintf(out, "original:    %d bytes\n", stats.OriginalSizeBytes)
	for cat, n := range stats.CategoryHistogram {
		fmt.Fprintf(out, "  %s: %d\n", cat, n)
	}
	return nil
}
