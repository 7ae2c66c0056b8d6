package main

import (
	"context"
	"fmt"

	"github.com/chinmay-sawant/fontresolve/internal/sources"
	"github.com/spf13/cobra"
)

func runScan(cmd *cobra.Command, args []string) error {
	detailed, _ := cmd.Flags().GetBool("detailed")

	scanner := sources.New()
	fonts, err := scanner.Scan(context.Background())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range fonts {
		if detailed {
			fmt.Fprintf(out, "%s (weight %d, italic %v, %s)\n", f.Family, f.Weight, f.Italic, f.Path)
			continue
		}
		fmt.Fprintln(out, f.Family)
	}
	fmt.Fprintf(out, "%d fonts found\n", len(fonts))
	return nil
}
