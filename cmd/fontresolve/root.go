// Command fontresolve is the CLI front-end for the font resolution engine:
// resolve a requested face to an installed or downloadable font, inspect the
// hybrid cache, manage configuration, and keep the bundled web font database
// up to date. Ported from cmd/gopdfsuit's single-binary-entrypoint shape
// (cmd/gopdfsuit/main.go), generalized from one gin server to a multi-verb
// spf13/cobra tree since the spec's surface is ten-plus subcommands rather
// than one HTTP listener.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chinmay-sawant/fontresolve/internal/acquisition"
	"github.com/chinmay-sawant/fontresolve/internal/cache"
	"github.com/chinmay-sawant/fontresolve/internal/config"
	"github.com/chinmay-sawant/fontresolve/internal/resolver"
	"github.com/chinmay-sawant/fontresolve/internal/sources"
	"github.com/chinmay-sawant/fontresolve/internal/webdb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at release time; left as a plain literal the way
// cmd/gopdfsuit/main.go hard-codes its own build metadata rather than
// reaching for a version-injection framework.
const version = "0.1.0"

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "fontresolve [name]",
		Short: "Resolve font names to installed, bundled, or downloadable faces",
		Args:  cobra.MaximumNArgs(1),
		// A bare positional name is an alias for `resolve`, per spec.
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runResolve(cmd, args)
		},
	}

	root.PersistentFlags().Bool("no-cache", false, "bypass the cache for this invocation")

	resolveCmd := &cobra.Command{
		Use:   "resolve <name>",
		Short: "Resolve a single font name",
		Args:  cobra.ExactArgs(1),
		RunE:  runResolve,
	}
	resolveCmd.Flags().Bool("web", false, "include the bundled web font database")
	resolveCmd.Flags().Bool("detailed", false, "print full descriptor and provenance")

	tieredCmd := &cobra.Command{
		Use:   "tiered <name>",
		Short: "Resolve with tiered exact/similar/internet matching",
		Args:  cobra.ExactArgs(1),
		RunE:  runTiered,
	}
	tieredCmd.Flags().Bool("internet", false, "allow internet provider search when no local match is good enough")

	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Run the interactive first-time setup wizard",
		RunE:  runSetup,
	}

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan and list system fonts",
		RunE:  runScan,
	}
	scanCmd.Flags().Bool("detailed", false, "print full descriptors instead of just family names")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print web font database statistics",
		RunE:  runStats,
	}

	findSimilarCmd := &cobra.Command{
		Use:   "find-similar <name>",
		Short: "List fonts similar to the given name",
		Args:  cobra.ExactArgs(1),
		RunE:  runFindSimilar,
	}
	findSimilarCmd.Flags().IntP("count", "n", 5, "number of suggestions to return")

	checkLicenseCmd := &cobra.Command{
		Use:   "check-license <name>",
		Short: "Print the license posture for a resolved font",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheckLicense,
	}

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Check for and apply an incremental web font database update",
		RunE:  runUpdate,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the fontresolve version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}

	root.AddCommand(
		resolveCmd,
		tieredCmd,
		setupCmd,
		newCacheCommand(),
		newConfigCommand(),
		scanCmd,
		statsCmd,
		findSimilarCmd,
		checkLicenseCmd,
		updateCmd,
		versionCmd,
	)
	return root
}

// buildOrchestrator wires an internal/resolver.Orchestrator from the loaded
// config, mirroring the manual collaborator construction cmd/gopdfsuit's
// main.go does for its gin router/handlers, just for this CLI's longer
// dependency chain (cache, scanner, web DB, providers).
func buildOrchestrator(cfg config.Config, noCache bool) (*resolver.Orchestrator, error) {
	log := zap.NewNop().Sugar()

	var c *cache.Cache
	if cfg.CacheEnabled && !noCache {
		cacheDir, err := cacheDirFor(cfg)
		if err != nil {
			return nil, err
		}
		c, err = cache.New(cache.Options{
			Dir:              cacheDir,
			MemoryLimitMB:    cfg.MemoryLimitMB,
			DiskLimitMB:      cfg.DiskLimitMB,
			AutoPinThreshold: cfg.AutoPinThreshold,
		})
		if err != nil {
			return nil, err
		}
	}

	var scanner *sources.Scanner
	if cfg.SystemFontsEnabled {
		scanner = sources.New()
	}

	var db *webdb.Database
	if cfg.WebFontsEnabled {
		db = webdb.New(webdb.CreateMinimalDatabase())
	}

	var acq *acquisition.Manager
	if cacheDir, err := cacheDirFor(cfg); err == nil {
		acq, _ = acquisition.NewManager(nil, cacheDir+"/downloads")
		if acq != nil {
			acq.AddProvider(acquisition.NewGoogleFontsProvider(nil, ""))
			acq.AddProvider(acquisition.NewFontsourceProvider(nil))
			acq.AddProvider(acquisition.NewAdobeFontsProvider())
		}
	}

	return resolver.New(cfg, c, scanner, db, acq, log), nil
}

func cacheDirFor(cfg config.Config) (string, error) {
	configPath, err := config.Path()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(configPath), "cache"), nil
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
