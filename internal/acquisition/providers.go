package acquisition

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
)

// GoogleFontsProvider queries the Google Fonts Developer API.
type GoogleFontsProvider struct {
	client *http.Client
	apiKey string
}

// NewGoogleFontsProvider builds a provider; apiKey may be empty (the public
// endpoint works unauthenticated with lower rate limits).
func NewGoogleFontsProvider(client *http.Client, apiKey string) *GoogleFontsProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &GoogleFontsProvider{client: client, apiKey: apiKey}
}

func (p *GoogleFontsProvider) Name() string { return "Google Fonts" }

type googleFontsResponse struct {
	Items []struct {
		Family   string   `json:"family"`
		Category string   `json:"category"`
		Variants []string `json:"variants"`
	} `json:"items"`
}

func (p *GoogleFontsProvider) SearchFonts(ctx context.Context, query string, limit int) ([]fontcore.CompressedFontData, error) {
	url := "https://www.googleapis.com/webfonts/v1/webfonts?sort=popularity"
	if p.apiKey != "" {
		url = fmt.Sprintf("https://www.googleapis.com/webfonts/v1/webfonts?key=%s&sort=popularity", p.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fontcore.NewError(fontcore.KindIO, "Google Fonts API request", err)
	}
	defer resp.Body.Close()

	var parsed googleFontsResponse
	if err := decodeJSON(resp.Body, &parsed); err != nil {
		return nil, fontcore.NewError(fontcore.KindParse, "decode Google Fonts response", err)
	}

	queryLower := strings.ToLower(query)
	var out []fontcore.CompressedFontData
	for _, item := range parsed.Items {
		if len(out) >= limit {
			break
		}
		if query != "" && !strings.Contains(strings.ToLower(item.Family), queryLower) {
			continue
		}
		out = append(out, googleFontToCompressed(item.Family, item.Category))
	}
	return out, nil
}

func googleFontToCompressed(family, category string) fontcore.CompressedFontData {
	cat := fontcore.CategoryOther
	switch category {
	case "serif":
		cat = fontcore.CategorySerif
	case "sans-serif":
		cat = fontcore.CategorySansSerif
	case "monospace":
		cat = fontcore.CategoryMonospace
	case "display":
		cat = fontcore.CategoryDisplay
	case "handwriting":
		cat = fontcore.CategoryHandwriting
	}

	return fontcore.CompressedFontData{
		Family:         family,
		PostScriptName: strings.ToLower(strings.ReplaceAll(family, " ", "-")),
		Weight:         400,
		Monospaced:     cat == fontcore.CategoryMonospace,
		Category:       cat,
		License: &fontcore.LicenseInfo{
			Name: "SIL Open Font License", URL: "http://scripts.sil.org/OFL",
			AllowsEmbedding: true, AllowsModification: true, AllowsCommercialUse: true,
		},
		FileSizeKB: 50,
		Popularity: 50,
	}
}

var cssURLPattern = regexp.MustCompile(`url\(([^)]+)\)`)

func (p *GoogleFontsProvider) DownloadFont(ctx context.Context, font fontcore.CompressedFontData, format fontcore.FontFormat) (Download, error) {
	cssURL := fmt.Sprintf("https://fonts.googleapis.com/css?family=%s:%d",
		strings.ReplaceAll(font.Family, " ", "+"), font.Weight)
	if format == fontcore.FormatWOFF2 {
		cssURL = fmt.Sprintf("https://fonts.googleapis.com/css2?family=%s:wght@%d",
			strings.ReplaceAll(font.Family, " ", "+"), font.Weight)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cssURL, nil)
	if err != nil {
		return Download{}, err
	}
	if format == fontcore.FormatWOFF2 {
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Download{}, fontcore.NewError(fontcore.KindIO, "fetch font CSS", err)
	}
	defer resp.Body.Close()

	var body strings.Builder
	buf := make([]byte, 4096)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			body.Write(buf[:n])
		}
		if rerr != nil {
			break
		}
	}

	match := cssURLPattern.FindStringSubmatch(body.String())
	if match == nil {
		return Download{}, fontcore.NewError(fontcore.KindParse, "no download URL found in font CSS", nil)
	}
	downloadURL := strings.Trim(match[1], `'"`)

	return Download{
		Font:            font,
		DownloadURL:     downloadURL,
		Format:          format,
		EstimatedSizeKB: font.FileSizeKB,
	}, nil
}

func (p *GoogleFontsProvider) LicenseInfo(fontcore.CompressedFontData) fontcore.LicenseInfo {
	return fontcore.LicenseInfo{
		Name: "SIL Open Font License", URL: "http://scripts.sil.org/OFL",
		AllowsEmbedding: true, AllowsModification: true, AllowsCommercialUse: true,
	}
}

// FontsourceProvider queries the Fontsource API, a CDN-backed mirror of many
// open font families.
type FontsourceProvider struct {
	client *http.Client
}

func NewFontsourceProvider(client *http.Client) *FontsourceProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &FontsourceProvider{client: client}
}

func (p *FontsourceProvider) Name() string { return "Fontsource" }

type fontsourceItem struct {
	ID     string `json:"id"`
	Family string `json:"family"`
}

func (p *FontsourceProvider) SearchFonts(ctx context.Context, query string, limit int) ([]fontcore.CompressedFontData, error) {
	url := fmt.Sprintf("https://api.fontsource.org/v1/fonts?search=%s", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fontcore.NewError(fontcore.KindIO, "Fontsource API request", err)
	}
	defer resp.Body.Close()

	var items []fontsourceItem
	if err := decodeJSON(resp.Body, &items); err != nil {
		return nil, fontcore.NewError(fontcore.KindParse, "decode Fontsource response", err)
	}

	var out []fontcore.CompressedFontData
	for i, item := range items {
		if i >= limit {
			break
		}
		ps := item.ID
		if ps == "" {
			ps = item.Family
		}
		out = append(out, fontcore.CompressedFontData{
			Family:         item.Family,
			PostScriptName: ps,
			Weight:         400,
			Category:       fontcore.CategoryOther,
			License: &fontcore.LicenseInfo{
				Name: "Various (Check Fontsource)", URL: "https://fontsource.org/",
				AllowsEmbedding: true, AllowsModification: true, AllowsCommercialUse: true,
			},
			FileSizeKB: 50,
			Popularity: 50,
		})
	}
	return out, nil
}

func (p *FontsourceProvider) DownloadFont(_ context.Context, font fontcore.CompressedFontData, format fontcore.FontFormat) (Download, error) {
	ext := "ttf"
	if format == fontcore.FormatWOFF2 {
		ext = "woff2"
	}
	url := fmt.Sprintf("https://cdn.jsdelivr.net/fontsource/fonts/%s/%s",
		strings.ToLower(strings.ReplaceAll(font.Family, " ", "-")), ext)
	return Download{Font: font, DownloadURL: url, Format: format, EstimatedSizeKB: font.FileSizeKB}, nil
}

func (p *FontsourceProvider) LicenseInfo(fontcore.CompressedFontData) fontcore.LicenseInfo {
	return fontcore.LicenseInfo{
		Name: "Various Open Font Licenses", URL: "https://fontsource.org/licenses",
		AllowsEmbedding: true, AllowsModification: true, AllowsCommercialUse: true,
	}
}

// AdobeFontsProvider is a deliberate skeleton: Adobe Fonts has no public
// search/download API, so search always returns empty and download always
// fails, mirroring the original Rust crate's explicit placeholder rather
// than inventing an unauthorized integration.
type AdobeFontsProvider struct{}

func NewAdobeFontsProvider() *AdobeFontsProvider { return &AdobeFontsProvider{} }

func (p *AdobeFontsProvider) Name() string { return "Adobe Fonts (Free Tier)" }

func (p *AdobeFontsProvider) SearchFonts(context.Context, string, int) ([]fontcore.CompressedFontData, error) {
	return nil, nil
}

func (p *AdobeFontsProvider) DownloadFont(context.Context, fontcore.CompressedFontData, fontcore.FontFormat) (Download, error) {
	return Download{}, fontcore.NotFound("Adobe direct download requires enterprise API")
}

func (p *AdobeFontsProvider) LicenseInfo(fontcore.CompressedFontData) fontcore.LicenseInfo {
	return fontcore.LicenseInfo{
		Name: "Adobe Font License", URL: "https://www.adobe.com/products/type/font-licensing.html",
		AllowsEmbedding: true, RequiresAttribution: true, AllowsCommercialUse: false,
	}
}
