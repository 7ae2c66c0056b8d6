// Package sources scans the local filesystem for installed font files.
// Grounded on other_examples/Graphixa-FontGet's platform package (runtime.GOOS
// switch, isFontFile extension table, filepath.Walk idiom) and on
// internal/pdf/font/ttf.go for the metrics extraction each discovered file
// feeds into via internal/parser.
package sources

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/chinmay-sawant/fontresolve/internal/normalizer"
	"github.com/chinmay-sawant/fontresolve/internal/parser"
)

const (
	maxScanFiles  = 5000
	maxScanLevels = 3
)

var fontExtensions = map[string]fontcore.FontFormat{
	".ttf":  fontcore.FormatTTF,
	".ttc":  fontcore.FormatTTF,
	".otf":  fontcore.FormatOTF,
	".otc":  fontcore.FormatOTF,
	".woff": fontcore.FormatWOFF,
	".woff2": fontcore.FormatWOFF2,
}

// DefaultDirs returns the conventional system font directories for the
// running OS, mirroring Graphixa-FontGet's per-platform GetFontDir table.
func DefaultDirs() []string {
	switch runtime.GOOS {
	case "windows":
		dirs := []string{`C:\Windows\Fonts`}
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			dirs = append(dirs, filepath.Join(appData, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		dirs := []string{"/Library/Fonts", "/System/Library/Fonts"}
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	default: // linux and other unix-likes
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, filepath.Join(home, ".fonts"), filepath.Join(home, ".local", "share", "fonts"))
		}
		return dirs
	}
}

// Scanner walks system font directories and parses each discovered file into
// a fontcore.FontDescriptor.
type Scanner struct {
	Dirs          []string
	ParseMetrics  bool // when false, descriptors are built from filename only
}

// New returns a Scanner seeded with DefaultDirs.
func New() *Scanner {
	return &Scanner{Dirs: DefaultDirs(), ParseMetrics: true}
}

// Scan walks s.Dirs and returns one descriptor per recognized font file.
// Directory-walk errors are swallowed per spec.md's error-propagation policy
// (scanner failures never abort a resolve); files that fail to parse as
// fonts are skipped individually rather than aborting the whole scan.
func (s *Scanner) Scan(ctx context.Context) ([]fontcore.FontDescriptor, error) {
	var out []fontcore.FontDescriptor
	filesSeen := 0

	for _, root := range s.Dirs {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}

		rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // swallow: permission errors, broken symlinks, etc.
			}
			if ctx.Err() != nil {
				return filepath.SkipAll
			}
			if d.IsDir() {
				depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
				if depth > maxScanLevels {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type()&fs.ModeSymlink != 0 {
				return nil
			}
			if filesSeen >= maxScanFiles {
				return filepath.SkipAll
			}
			filesSeen++

			format, ok := fontExtensions[strings.ToLower(filepath.Ext(path))]
			if !ok {
				return nil
			}

			desc, ok := s.describeFile(path, format)
			if !ok {
				return nil
			}
			out = append(out, desc)
			return nil
		})
	}

	return out, nil
}

func (s *Scanner) describeFile(path string, format fontcore.FontFormat) (fontcore.FontDescriptor, bool) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	req, err := normalizer.Normalize(base)
	if err != nil {
		return fontcore.FontDescriptor{}, false
	}

	desc := fontcore.FontDescriptor{
		Family:     req.NormalizedFamily,
		Path:       path,
		Format:     format,
		Weight:     req.Weight,
		Italic:     req.Italic,
		Monospaced: req.Monospaced,
		Source:     fontcore.SourceSystem,
	}

	if s.ParseMetrics && (format == fontcore.FormatTTF || format == fontcore.FormatOTF) {
		if data, err := os.ReadFile(path); err == nil {
			if metrics, meta, err := parser.ParseMetrics(data); err == nil {
				desc.Metrics = &metrics
				if meta.PostScriptName != "" {
					desc.PostScriptName = meta.PostScriptName
				}
				if meta.FullName != "" {
					desc.FullName = meta.FullName
				}
				if meta.IsFixedPitch {
					desc.Monospaced = true
				}
			}
		}
	}

	return desc, true
}
