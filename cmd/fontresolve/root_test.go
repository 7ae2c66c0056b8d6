package main

import (
	"bytes"
	"testing"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/stretchr/testify/require"
)

func TestVersionCommandPrintsVersion(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), version)
}

func TestRootCommandTreeHasExpectedSubcommands(t *testing.T) {
	root := newRootCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"resolve", "tiered", "setup", "cache", "config", "scan", "stats", "find-similar", "check-license", "update", "version"} {
		require.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestPrintResolutionResultSubstitutedWarning(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)

	printResolutionResult(root, fontcore.ResolutionResult{
		Font:        fontcore.FontDescriptor{Family: "Liberation Sans", Weight: 400},
		Substituted: true,
		Reason:      fontcore.ReasonFontNotFound,
		Warnings:    []string{"no good match found for 'Arialx'"},
	}, false)

	require.Contains(t, out.String(), "Liberation Sans")
	require.Contains(t, out.String(), "substituted")
}

func TestPrintTieredResultExact(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)

	font := fontcore.FontDescriptor{Family: "Arial"}
	printTieredResult(root, fontcore.TieredResolutionResult{Kind: fontcore.TRKExact, Font: &font, Score: 1.0})

	require.Contains(t, out.String(), "exact")
	require.Contains(t, out.String(), "Arial")
}
