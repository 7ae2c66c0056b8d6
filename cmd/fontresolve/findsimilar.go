package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func runFindSimilar(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	count, _ := cmd.Flags().GetInt("count")

	orch, err := buildOrchestrator(cfg, true)
	if err != nil {
		return err
	}

	suggestions, err := orch.GetSuggestions(context.Background(), args[0], false)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), err)
		return nil
	}

	out := cmd.OutOrStdout()
	for i, s := range suggestions {
		if i >= count {
			break
		}
		fmt.Fprintf(out, "%s (score %.2f)\n", s.Descriptor.Family, s.Score)
	}
	return nil
}
