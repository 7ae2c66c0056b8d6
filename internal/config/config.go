// Package config loads and persists the resolver's configuration file via
// spf13/viper (TOML), mirroring original_source/font-setup/src/lib.rs's
// load_config/save_config/get_config_path but translated from the Rust
// `directories` crate's platform-appropriate search path to Go's
// os.UserConfigDir, and from toml+serde to viper's TOML codec.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/spf13/viper"
)

// CleanupMode is an informational selector for external cleanup schedulers
// (spec.md §6's cache_cleanup_mode).
type CleanupMode string

const (
	CleanupManual    CleanupMode = "manual"
	CleanupSizeBased CleanupMode = "size_based"
	CleanupTimeBased CleanupMode = "time_based"
	CleanupSmart     CleanupMode = "smart"
)

// WarningVerbosity is spec.md §6's license_warnings enum.
type WarningVerbosity string

const (
	WarningOff     WarningVerbosity = "off"
	WarningMinimal WarningVerbosity = "minimal"
	WarningNormal  WarningVerbosity = "normal"
	WarningVerbose WarningVerbosity = "verbose"
	WarningAll     WarningVerbosity = "all"
)

// SourcePriority is SPEC_FULL.md §4.5 supplement's richer enum, replacing
// spec.md's "enum + optional list" note with the full set ported from
// original_source/font-sources's FontSourcePriority.
type SourcePriority string

const (
	PrioritySystemOnly              SourcePriority = "system_only"
	PrioritySystemThenWeb           SourcePriority = "system_then_web"
	PrioritySystemThenCustom        SourcePriority = "system_then_custom"
	PrioritySystemThenWebThenCustom SourcePriority = "system_then_web_then_custom"
	PriorityCustomThenSystemThenWeb SourcePriority = "custom_then_system_then_web"
	PriorityAllCustomFirst          SourcePriority = "all_custom_first"
	PriorityAllWebFirst             SourcePriority = "all_web_first"
	PriorityList                    SourcePriority = "priority_list"
)

// Config is the full set of recognized options from spec.md §6's table, plus
// the SPEC_FULL.md §3/§4.5 supplements (preferred families, explicit source
// list for PriorityList).
type Config struct {
	CacheEnabled       bool             `mapstructure:"cache_enabled"`
	MemoryLimitMB      int              `mapstructure:"memory_limit_mb"`
	DiskLimitMB        int              `mapstructure:"disk_limit_mb"`
	AutoPinThreshold   int              `mapstructure:"auto_pin_threshold"`
	CacheCleanupMode   CleanupMode      `mapstructure:"cache_cleanup_mode"`
	SystemFontsEnabled bool             `mapstructure:"system_fonts_enabled"`
	WebFontsEnabled    bool             `mapstructure:"web_fonts_enabled"`
	CustomFontsEnabled bool             `mapstructure:"custom_fonts_enabled"`
	FontSourcePriority SourcePriority   `mapstructure:"font_source_priority"`
	SourcePriorityList []string         `mapstructure:"source_priority_list"`
	LicenseWarnings    WarningVerbosity `mapstructure:"license_warnings"`
	DynamicLearning    bool             `mapstructure:"dynamic_learning_enabled"`
	ProjectAssetDirs   []string         `mapstructure:"project_asset_dirs"`

	// PreferredFamilies supplements spec.md's data model per SPEC_FULL.md §3.
	PreferredFamilies []string `mapstructure:"preferred_families"`
}

// Default mirrors the original Rust EnhancedResolverConfig::default, adapted
// to this module's flat Config shape.
func Default() Config {
	return Config{
		CacheEnabled:       true,
		MemoryLimitMB:      2,
		DiskLimitMB:        10,
		AutoPinThreshold:   5,
		CacheCleanupMode:   CleanupManual,
		SystemFontsEnabled: true,
		WebFontsEnabled:    true,
		CustomFontsEnabled: false,
		FontSourcePriority: PrioritySystemThenWeb,
		LicenseWarnings:    WarningAll,
		DynamicLearning:    true,
		PreferredFamilies:  []string{"Noto Sans", "Noto Serif", "Liberation Sans", "DejaVu Sans"},
	}
}

// Path returns the platform config-directory path for config.toml, mirroring
// get_config_path's ProjectDirs::from("com", "font-resolver", "config").
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fontcore.NewError(fontcore.KindPlatformNotSupported, "determine config directory", err)
	}
	return filepath.Join(dir, "fontresolve", "config.toml"), nil
}

// Load reads config.toml from Path(), falling back to Default() if the file
// does not exist (matching load_config's Ok(EnhancedResolverConfig::default())
// no-file branch).
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a config.toml at an explicit path, for tests and the CLI's
// config import command.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fontcore.NewError(fontcore.KindParse, "read config file", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fontcore.NewError(fontcore.KindParse, "decode config file", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg as TOML to Path(), creating parent directories as needed,
// mirroring save_config.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes cfg as TOML to an explicit path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fontcore.NewError(fontcore.KindIO, "create config directory", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("cache_enabled", cfg.CacheEnabled)
	v.Set("memory_limit_mb", cfg.MemoryLimitMB)
	v.Set("disk_limit_mb", cfg.DiskLimitMB)
	v.Set("auto_pin_threshold", cfg.AutoPinThreshold)
	v.Set("cache_cleanup_mode", string(cfg.CacheCleanupMode))
	v.Set("system_fonts_enabled", cfg.SystemFontsEnabled)
	v.Set("web_fonts_enabled", cfg.WebFontsEnabled)
	v.Set("custom_fonts_enabled", cfg.CustomFontsEnabled)
	v.Set("font_source_priority", string(cfg.FontSourcePriority))
	v.Set("source_priority_list", cfg.SourcePriorityList)
	v.Set("license_warnings", string(cfg.LicenseWarnings))
	v.Set("dynamic_learning_enabled", cfg.DynamicLearning)
	v.Set("project_asset_dirs", cfg.ProjectAssetDirs)
	v.Set("preferred_families", cfg.PreferredFamilies)

	if err := v.WriteConfigAs(path); err != nil {
		return fontcore.NewError(fontcore.KindIO, "write config file", err)
	}
	return nil
}

// Validate enforces spec.md §6's typed minimums: memory_limit_mb >= 1,
// disk_limit_mb >= 10. A violation is the CLI's only non-zero exit besides a
// parse error, per spec.md §6.
func Validate(cfg Config) error {
	if cfg.MemoryLimitMB < 1 {
		return fontcore.NewError(fontcore.KindInvalidFontName,
			fmt.Sprintf("memory_limit_mb must be >= 1, got %d", cfg.MemoryLimitMB), nil)
	}
	if cfg.DiskLimitMB < 10 {
		return fontcore.NewError(fontcore.KindInvalidFontName,
			fmt.Sprintf("disk_limit_mb must be >= 10, got %d", cfg.DiskLimitMB), nil)
	}
	return nil
}

// Set applies a single key=value pair from the CLI's `config set` command,
// returning an error for an unrecognized key or an invalid value.
func Set(cfg *Config, key, value string) error {
	switch key {
	case "cache_enabled":
		cfg.CacheEnabled = value == "true"
	case "memory_limit_mb":
		n, err := parseIntOrErr(value)
		if err != nil {
			return err
		}
		cfg.MemoryLimitMB = n
	case "disk_limit_mb":
		n, err := parseIntOrErr(value)
		if err != nil {
			return err
		}
		cfg.DiskLimitMB = n
	case "auto_pin_threshold":
		n, err := parseIntOrErr(value)
		if err != nil {
			return err
		}
		cfg.AutoPinThreshold = n
	case "cache_cleanup_mode":
		cfg.CacheCleanupMode = CleanupMode(value)
	case "system_fonts_enabled":
		cfg.SystemFontsEnabled = value == "true"
	case "web_fonts_enabled":
		cfg.WebFontsEnabled = value == "true"
	case "custom_fonts_enabled":
		cfg.CustomFontsEnabled = value == "true"
	case "font_source_priority":
		cfg.FontSourcePriority = SourcePriority(value)
	case "license_warnings":
		cfg.LicenseWarnings = WarningVerbosity(value)
	case "dynamic_learning_enabled":
		cfg.DynamicLearning = value == "true"
	default:
		return fontcore.NewError(fontcore.KindInvalidFontName, fmt.Sprintf("unrecognized config key %q", key), nil)
	}
	return Validate(*cfg)
}

func parseIntOrErr(s string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fontcore.NewError(fontcore.KindInvalidFontName, fmt.Sprintf("invalid integer %q", s), err)
	}
	return n, nil
}
