package update

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chinmay-sawant/fontresolve/internal/codec"
	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/stretchr/testify/require"
)

func buildCompressedDB(t *testing.T) []byte {
	t.Helper()
	db, err := codec.BuildDatabase([]fontcore.FontDescriptor{
		{Family: "Inter", Weight: 400, Format: fontcore.FormatWOFF2},
	}, false)
	require.NoError(t, err)
	data, err := codec.Compress(db)
	require.NoError(t, err)
	return data
}

func TestCheckForUpdatesNoManifestURL(t *testing.T) {
	mgr := NewManager("", nil)
	manifest, err := mgr.CheckForUpdates(context.Background())
	require.NoError(t, err)
	require.Nil(t, manifest)
}

func TestCheckForUpdatesNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	mgr := NewManager(srv.URL, nil)
	manifest, err := mgr.CheckForUpdates(context.Background())
	require.NoError(t, err)
	require.Nil(t, manifest)
}

func TestUpdateFromInternetAppliesIncrementalUpdate(t *testing.T) {
	updateBytes := buildCompressedDB(t)
	sum := sha256.Sum256(updateBytes)
	checksum := hex.EncodeToString(sum[:])

	var downloadURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/manifest.json", func(w http.ResponseWriter, r *http.Request) {
		manifest := Manifest{
			Version:             "2.0",
			FontCount:           1,
			CompressedSizeBytes: len(updateBytes),
			Checksum:            checksum,
			DownloadURL:         downloadURL,
		}
		require.NoError(t, json.NewEncoder(w).Encode(manifest))
	})
	mux.HandleFunc("/db.bin", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(updateBytes)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	downloadURL = srv.URL + "/db.bin"

	mgr := NewManager(srv.URL+"/manifest.json", nil)

	current, err := codec.BuildDatabase(nil, false)
	require.NoError(t, err)

	var progressed bool
	merged, result, err := mgr.UpdateFromInternet(context.Background(), current, func(downloaded, total int64) {
		progressed = true
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.True(t, progressed)
	require.Equal(t, 1, result.Added)
	require.Equal(t, 1, len(merged.Fonts))
}

func TestDownloadIncrementalUpdateRejectsBadChecksum(t *testing.T) {
	updateBytes := buildCompressedDB(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(updateBytes)
	}))
	defer srv.Close()

	mgr := NewManager(srv.URL, nil)
	manifest := &Manifest{DownloadURL: srv.URL, Checksum: "deadbeef"}
	_, err := mgr.DownloadIncrementalUpdate(context.Background(), manifest, nil)
	require.Error(t, err)
}
