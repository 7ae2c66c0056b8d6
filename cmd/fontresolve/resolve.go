package main

import (
	"context"
	"fmt"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/spf13/cobra"
)

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if web, _ := cmd.Flags().GetBool("web"); web {
		cfg.WebFontsEnabled = true
	}
	noCache, _ := cmd.Flags().GetBool("no-cache")
	detailed, _ := cmd.Flags().GetBool("detailed")

	orch, err := buildOrchestrator(cfg, noCache)
	if err != nil {
		return err
	}

	result, err := orch.Resolve(context.Background(), args[0])
	if err != nil {
		// "not found" and similar diagnostics are a successful invocation,
		// per spec.md §6's exit-code policy: print and return nil.
		fmt.Fprintf(cmd.OutOrStdout(), "no resolution for %q: %v\n", args[0], err)
		return nil
	}

	printResolutionResult(cmd, result, detailed)
	return nil
}

func printResolutionResult(cmd *cobra.Command, result fontcore.ResolutionResult, detailed bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (weight %d, italic %v)\n", result.Font.Family, result.Font.Weight, result.Font.Italic)
	if result.Substituted {
		fmt.Fprintf(out, "  substituted: reason=%s\n", result.Reason)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", w)
	}
	if detailed {
		fmt.Fprintf(out, "  source: %s\n", result.Font.Source)
		fmt.Fprintf(out, "  postscript name: %s\n", result.Font.PostScriptName)
		if result.Font.Path != "" {
			fmt.Fprintf(out, "  path: %s\n", result.Font.Path)
		}
		if result.Font.License != nil {
			fmt.Fprintf(out, "  license: %s\n", result.Font.License.Name)
		}
	}
}
