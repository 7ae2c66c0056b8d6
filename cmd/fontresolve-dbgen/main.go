// Command fontresolve-dbgen regenerates the embedded web font database blob
// from the Google Fonts catalog. It is an offline tool, never invoked by the
// resolver at request time, mirroring the way cmd/gopdfsuit keeps its
// one-shot maintenance tools (cmd/diag, cmd/stripap) separate from the
// server binary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chinmay-sawant/fontresolve/internal/webdb/ingest"
)

func main() {
	out := flag.String("out", "fontdb.bin", "output path for the compressed database blob")
	apiKey := flag.String("api-key", os.Getenv("GOOGLE_FONTS_API_KEY"), "Google Fonts API key (optional, lowers rate limits if unset)")
	buildMatrix := flag.Bool("similarity-matrix", true, "precompute the similarity matrix before compressing")
	timeout := flag.Duration("timeout", 60*time.Second, "overall ingestion timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	src := &ingest.GoogleFontsSource{APIKey: *apiKey}
	data, err := ingest.BuildAndCompress(ctx, src, *buildMatrix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dbgen: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "dbgen: write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d bytes to %s\n", len(data), *out)
}
