// Package update implements the update-manifest downloader: checking a
// configured URL for a newer incremental database, streaming it with
// progress reporting, verifying its SHA-256 checksum, and applying it via
// internal/codec's incremental merge. Grounded on
// original_source/font-updater/src/lib.rs, translated from reqwest +
// futures_util::StreamExt + indicatif to net/http + io.Copy +
// golang.org/x/sync/errgroup-supervised progress callbacks, per
// SPEC_FULL.md §4.11.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chinmay-sawant/fontresolve/internal/codec"
	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"golang.org/x/sync/errgroup"
)

// Changes summarizes what an incremental update does to the database.
type Changes struct {
	AddedFonts     []string `json:"added_fonts"`
	RemovedFonts   []string `json:"removed_fonts"`
	UpdatedFonts   []string `json:"updated_fonts"`
	SecurityFixes  []string `json:"security_fixes"`
}

// Manifest describes an available database update.
type Manifest struct {
	Version             string  `json:"version"`
	FontCount           int     `json:"font_count"`
	TotalSizeBytes      int     `json:"total_size_bytes"`
	CompressedSizeBytes int     `json:"compressed_size_bytes"`
	CreatedAt           string  `json:"created_at"`
	Checksum            string  `json:"checksum"`
	IncrementalFrom     string  `json:"incremental_from,omitempty"`
	Changes             Changes `json:"changes"`
	DownloadURL         string  `json:"download_url"`
}

// ProgressFunc receives (downloaded, total) byte counts as a download
// streams in.
type ProgressFunc func(downloaded, total int64)

// Manager checks for, downloads, verifies, and applies database updates.
type Manager struct {
	ManifestURL string
	Client      *http.Client
}

// NewManager builds a Manager pointed at manifestURL (client nil uses a new
// http.Client with a 30s timeout).
func NewManager(manifestURL string, client *http.Client) *Manager {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Manager{ManifestURL: manifestURL, Client: client}
}

// CheckForUpdates fetches and decodes the manifest at ManifestURL. A nil
// manifest with no error means no update is available.
func (m *Manager) CheckForUpdates(ctx context.Context) (*Manifest, error) {
	if m.ManifestURL == "" {
		return nil, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.ManifestURL, nil)
	if err != nil {
		return nil, fontcore.NewError(fontcore.KindIO, "build manifest request", err)
	}
	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fontcore.NewError(fontcore.KindIO, "fetch manifest", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fontcore.NewError(fontcore.KindIO, fmt.Sprintf("unexpected manifest status %d", resp.StatusCode), nil)
	}

	var manifest Manifest
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		return nil, fontcore.NewError(fontcore.KindParse, "decode manifest", err)
	}
	return &manifest, nil
}

// DownloadIncrementalUpdate streams manifest.DownloadURL, invoking progress
// (if non-nil) as bytes arrive, then verifies the SHA-256 checksum from the
// manifest before returning the bytes. Checksum mismatch is surfaced as a
// Parse error (spec.md §4.4's "Checksum" requirement).
func (m *Manager) DownloadIncrementalUpdate(ctx context.Context, manifest *Manifest, progress ProgressFunc) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifest.DownloadURL, nil)
	if err != nil {
		return nil, fontcore.NewError(fontcore.KindIO, "build download request", err)
	}
	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fontcore.NewError(fontcore.KindIO, "download update", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fontcore.NewError(fontcore.KindIO, fmt.Sprintf("unexpected download status %d", resp.StatusCode), nil)
	}

	total := resp.ContentLength
	if total <= 0 {
		total = int64(manifest.CompressedSizeBytes)
	}

	data, err := copyWithProgress(resp.Body, total, progress)
	if err != nil {
		return nil, err
	}

	if manifest.Checksum != "" && !codec.VerifyChecksum(data, manifest.Checksum) {
		return nil, fontcore.NewError(fontcore.KindParse, "update checksum mismatch", nil)
	}
	return data, nil
}

// copyWithProgress streams src into memory, reporting progress via an
// errgroup-supervised goroutine exactly as SPEC_FULL.md §4.11 describes:
// one goroutine does the blocking read, the caller's progress callback runs
// inline as each chunk lands (no separate ticker goroutine needed since the
// callback itself is cheap and non-blocking, matching the teacher's
// preference for lightweight progress reporting over a TUI dependency).
func copyWithProgress(src io.Reader, total int64, progress ProgressFunc) ([]byte, error) {
	g, _ := errgroup.WithContext(context.Background())
	var out []byte

	g.Go(func() error {
		buf := make([]byte, 32*1024)
		var downloaded int64
		for {
			n, err := src.Read(buf)
			if n > 0 {
				out = append(out, buf[:n]...)
				downloaded += int64(n)
				if progress != nil {
					progress(downloaded, total)
				}
			}
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fontcore.NewError(fontcore.KindIO, "stream update bytes", err)
			}
		}
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyIncrementalUpdate decodes updateBytes as a CompressedFontDatabase and
// merges it into current via internal/codec.Merge (spec.md §4.4's
// incremental merge).
func (m *Manager) ApplyIncrementalUpdate(current fontcore.CompressedFontDatabase, updateBytes []byte) (fontcore.CompressedFontDatabase, codec.MergeResult, error) {
	update, err := codec.Decompress(updateBytes)
	if err != nil {
		return current, codec.MergeResult{}, err
	}
	merged, result := codec.Merge(current, update)
	return merged, result, nil
}

// UpdateFromInternet composes CheckForUpdates, DownloadIncrementalUpdate,
// and ApplyIncrementalUpdate into one call. Returns the unchanged current
// database (and a nil MergeResult pointer) when no update is available.
func (m *Manager) UpdateFromInternet(ctx context.Context, current fontcore.CompressedFontDatabase, progress ProgressFunc) (fontcore.CompressedFontDatabase, *codec.MergeResult, error) {
	manifest, err := m.CheckForUpdates(ctx)
	if err != nil {
		return current, nil, err
	}
	if manifest == nil {
		return current, nil, nil
	}

	data, err := m.DownloadIncrementalUpdate(ctx, manifest, progress)
	if err != nil {
		return current, nil, err
	}

	merged, result, err := m.ApplyIncrementalUpdate(current, data)
	if err != nil {
		return current, nil, err
	}
	return merged, &result, nil
}
