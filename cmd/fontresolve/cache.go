package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCommand() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the hybrid font cache",
	}

	statsCmd := &cobra.Command{
		Use:  "stats",
		RunE: runCacheStats,
	}

	cleanupCmd := &cobra.Command{
		Use:  "cleanup",
		RunE: runCacheCleanup,
	}
	cleanupCmd.Flags().Bool("aggressive", false, "also evict single-use memory entries, and disk files idle over 7 days instead of 30")
	cleanupCmd.Flags().Bool("dry-run", false, "report what would be evicted without removing anything")

	pinCmd := &cobra.Command{
		Use:  "pin <name>",
		Args: cobra.ExactArgs(1),
		RunE: runCachePin,
	}

	unpinCmd := &cobra.Command{
		Use:  "unpin <name>",
		Args: cobra.ExactArgs(1),
		RunE: runCacheUnpin,
	}

	listCmd := &cobra.Command{
		Use:  "list",
		RunE: runCacheList,
	}

	suggestCmd := &cobra.Command{
		Use:  "suggest",
		RunE: runCacheSuggest,
	}

	cacheCmd.AddCommand(statsCmd, cleanupCmd, pinCmd, unpinCmd, listCmd, suggestCmd)
	return cacheCmd
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg, false)
	if err != nil {
		return err
	}

	stats, err := orch.CacheStats()
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), err)
		return nil
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "memory entries: %d (%d KB)\n", stats.MemoryEntries, stats.MemoryUsageKB)
	fmt.Fprintf(out, "disk entries:   %d\n", stats.DiskEntries)
	fmt.Fprintf(out, "pinned:         %d\n", stats.PinnedCount)
	return nil
}

func runCacheCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg, false)
	if err != nil {
		return err
	}

	aggressive, _ := cmd.Flags().GetBool("aggressive")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if dryRun {
		names, err := orch.SuggestCleanup()
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), err)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d entries would be evicted\n", len(names))
		return nil
	}

	removed, err := orch.CleanupCache(aggressive)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), err)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "evicted %d entries\n", removed)
	return nil
}

func runCachePin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg, false)
	if err != nil {
		return err
	}
	if err := orch.Pin(args[0]); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), err)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "pinned %q\n", args[0])
	return nil
}

func runCacheUnpin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg, false)
	if err != nil {
		return err
	}
	if err := orch.Unpin(args[0]); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), err)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "unpinned %q\n", args[0])
	return nil
}

func runCacheList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg, false)
	if err != nil {
		return err
	}
	names, err := orch.ListPinned()
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), err)
		return nil
	}
	for _, n := range names {
		fmt.Fprintln(cmd.OutOrStdout(), n)
	}
	return nil
}

func runCacheSuggest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg, false)
	if err != nil {
		return err
	}
	names, err := orch.SuggestCleanup()
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), err)
		return nil
	}
	for _, n := range names {
		fmt.Fprintln(cmd.OutOrStdout(), n)
	}
	return nil
}
