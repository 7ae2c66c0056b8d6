package main

import (
	"context"
	"fmt"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/spf13/cobra"
)

func runTiered(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	noCache, _ := cmd.Flags().GetBool("no-cache")
	internet, _ := cmd.Flags().GetBool("internet")

	orch, err := buildOrchestrator(cfg, noCache)
	if err != nil {
		return err
	}

	result, err := orch.TieredResolve(context.Background(), args[0], internet)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "tiered resolution failed for %q: %v\n", args[0], err)
		return nil
	}

	printTieredResult(cmd, result)
	return nil
}

func printTieredResult(cmd *cobra.Command, result fontcore.TieredResolutionResult) {
	out := cmd.OutOrStdout()
	switch result.Kind {
	case fontcore.TRKExact, fontcore.TRKInternet:
		if result.Font != nil {
			fmt.Fprintf(out, "%s: %s (score %.2f)\n", result.Kind, result.Font.Family, result.Score)
			return
		}
		fmt.Fprintf(out, "%s: %d matches (best score %.2f)\n", result.Kind, len(result.Matches), result.BestScore)
	case fontcore.TRKSimilar:
		fmt.Fprintf(out, "similar: %d matches (best score %.2f)\n", len(result.Matches), result.BestScore)
		for _, m := range result.Matches {
			fmt.Fprintf(out, "  %s (score %.2f)\n", m.Descriptor.Family, m.Score)
		}
	case fontcore.TRKSuggestInternet:
		fmt.Fprintln(out, "no good local match; re-run with --internet to search web providers")
	case fontcore.TRKNotFound:
		fmt.Fprintln(out, "not found")
	}
}
