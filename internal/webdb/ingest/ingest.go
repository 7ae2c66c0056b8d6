// Package ingest regenerates the embedded font database blob offline from
// the Google Fonts API, grounded on
// original_source/font-web-db/src/lib.rs's `download` submodule (translated
// from reqwest to net/http) and internal/codec.Compress for the output
// format. It is invoked by cmd/fontresolve-dbgen, never on the resolve hot
// path.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chinmay-sawant/fontresolve/internal/codec"
	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
)

// Source fetches raw font listings for ingestion. The production
// implementation hits the Google Fonts developer API; tests inject a fake.
type Source interface {
	Fetch(ctx context.Context) ([]fontcore.FontDescriptor, error)
}

// GoogleFontsSource pulls the full family listing from Google's webfonts API.
type GoogleFontsSource struct {
	Client *http.Client
	APIKey string
}

type googleFontsListItem struct {
	Family   string   `json:"family"`
	Category string   `json:"category"`
	Variants []string `json:"variants"`
}

type googleFontsListResponse struct {
	Items []googleFontsListItem `json:"items"`
}

// Fetch retrieves the full Google Fonts catalog and converts each listed
// family/variant pair into a FontDescriptor.
func (s *GoogleFontsSource) Fetch(ctx context.Context) ([]fontcore.FontDescriptor, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	url := "https://www.googleapis.com/webfonts/v1/webfonts?key=" + s.APIKey
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fontcore.NewError(fontcore.KindIO, "build webfonts list request", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fontcore.NewError(fontcore.KindIO, "fetch webfonts list", err)
	}
	defer resp.Body.Close()

	var parsed googleFontsListResponse
	if err := decodeJSON(resp.Body, &parsed); err != nil {
		return nil, fontcore.NewError(fontcore.KindParse, "decode webfonts list", err)
	}

	var out []fontcore.FontDescriptor
	for _, item := range parsed.Items {
		for _, variant := range item.Variants {
			out = append(out, descriptorFromVariant(item.Family, item.Category, variant))
		}
	}
	return out, nil
}

func descriptorFromVariant(family, category, variant string) fontcore.FontDescriptor {
	weight := 400
	italic := strings.Contains(variant, "italic")
	digits := strings.TrimSuffix(variant, "italic")
	if n, err := parseWeight(digits); err == nil {
		weight = n
	}

	return fontcore.FontDescriptor{
		Family:     family,
		FullName:   fmt.Sprintf("%s %s", family, variant),
		Format:     fontcore.FormatWOFF2,
		Weight:     weight,
		Italic:     italic,
		Monospaced: category == "monospace",
		Source:     fontcore.SourceWeb,
	}
}

func parseWeight(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}

func decodeJSON(r io.Reader, v interface{}) error {
	return json.NewDecoder(r).Decode(v)
}

// BuildAndCompress fetches from src and runs the full compression pipeline
// (internal/codec.BuildDatabase + Compress), returning the ready-to-embed
// brotli+bincode blob.
func BuildAndCompress(ctx context.Context, src Source, buildMatrix bool) ([]byte, error) {
	descs, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	db, err := codec.BuildDatabase(descs, buildMatrix)
	if err != nil {
		return nil, err
	}
	return codec.Compress(db)
}
