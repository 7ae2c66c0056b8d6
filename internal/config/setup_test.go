package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunInteractiveSetupDefaults(t *testing.T) {
	in := strings.NewReader("\n\n")
	var out bytes.Buffer

	cfg := RunInteractiveSetup(in, &out)

	require.True(t, cfg.WebFontsEnabled)
	require.Equal(t, WarningAll, cfg.LicenseWarnings)
	require.Contains(t, out.String(), "FONT RESOLVER")
}

func TestRunInteractiveSetupDeclinesWebFonts(t *testing.T) {
	in := strings.NewReader("n\nn\n")
	var out bytes.Buffer

	cfg := RunInteractiveSetup(in, &out)

	require.False(t, cfg.WebFontsEnabled)
	require.Equal(t, WarningOff, cfg.LicenseWarnings)
}
