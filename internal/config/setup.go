package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// RunInteractiveSetup mirrors original_source/font-setup's interactive_setup:
// a short yes/no question sequence producing a Config. No package in the
// retrieved examples ships an interactive-prompt library (the Rust original's
// dialoguer has no Go analogue here), so this is a small, explicitly
// hand-rolled bufio.Scanner prompt loop — a justified stdlib fallback,
// documented in DESIGN.md — substituting a bytes.Buffer for r/w in tests.
func RunInteractiveSetup(r io.Reader, w io.Writer) Config {
	scanner := bufio.NewScanner(r)

	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w, "FONT RESOLVER - QUICK SETUP")
	fmt.Fprintln(w, strings.Repeat("=", 50))

	fmt.Fprintln(w, "\n1. Memory limit: 2MB (fixed)")
	fmt.Fprintln(w, "   Enough for all system fonts with room for growth.")
	fmt.Fprintln(w, "   Adjust later with: fontresolve config set memory_limit_mb <size>")

	fmt.Fprintln(w, "\n2. Web fonts:")
	fmt.Fprintln(w, "   Adds the bundled web font database to every search.")
	enableWeb := askYesNo(scanner, w, "   Enable web fonts? [Y/n] ", true)

	fmt.Fprintln(w, "\n3. License warnings:")
	fmt.Fprintln(w, "   Shows warnings for commercial font usage and suggests free alternatives.")
	enableLicense := askYesNo(scanner, w, "   Enable license warnings? [Y/n] ", true)

	fmt.Fprintln(w, strings.Repeat("=", 50))
	apply := askYesNo(scanner, w, "\nApply these settings? [Y/n] ", true)

	if !apply {
		fmt.Fprintln(w, "\nSetup cancelled. Using minimal defaults.")
		return Default()
	}

	cfg := Default()
	cfg.MemoryLimitMB = 2
	cfg.WebFontsEnabled = enableWeb
	if enableWeb {
		cfg.FontSourcePriority = PrioritySystemThenWeb
	} else {
		cfg.FontSourcePriority = PrioritySystemOnly
	}
	if enableLicense {
		cfg.LicenseWarnings = WarningAll
	} else {
		cfg.LicenseWarnings = WarningOff
	}
	return cfg
}

func askYesNo(scanner *bufio.Scanner, w io.Writer, prompt string, defaultYes bool) bool {
	fmt.Fprint(w, prompt)
	if !scanner.Scan() {
		return defaultYes
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	switch answer {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultYes
	}
}
