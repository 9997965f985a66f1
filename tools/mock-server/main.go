// Package main implements a mock quick-commerce feed server for local
// development. It serves canned product listings from per-platform JSON
// fixtures so basketd can run comparisons without hitting real platform
// endpoints.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// feedResponse mirrors the payload shape the basketd HTTP source decodes:
// an object with a "products" array.
type feedResponse struct {
	Platform string            `json:"platform"`
	Total    int               `json:"total"`
	Products []json.RawMessage `json:"products"`
}

type productRecord struct {
	Name string `json:"name"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureDir := flag.String("fixtures", "tools/mock-server/testdata", "directory of per-platform fixture files")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	feeds, err := loadFixtures(*fixtureDir)
	if err != nil {
		logger.Error("failed to load fixtures", "dir", *fixtureDir, "error", err)
		os.Exit(1)
	}
	if len(feeds) == 0 {
		logger.Error("no fixture files found", "dir", *fixtureDir)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	for platform, feed := range feeds {
		logger.Info("loaded fixture", "platform", platform, "products", len(feed.Products))
		mux.HandleFunc(fmt.Sprintf("GET /%s/search", platform), searchHandler(logger, platform, feed))
	}

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock feed server", "addr", addr, "platforms", len(feeds))

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// loadFixtures reads every *.json file in dir. The file's base name is the
// platform it serves, so zepto.json becomes GET /zepto/search.
func loadFixtures(dir string) (map[string]*feedResponse, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing fixtures: %w", err)
	}

	feeds := make(map[string]*feedResponse, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
		if err != nil {
			return nil, fmt.Errorf("reading fixture %s: %w", path, err)
		}
		var feed feedResponse
		if err := json.Unmarshal(data, &feed); err != nil {
			return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
		}
		platform := strings.TrimSuffix(filepath.Base(path), ".json")
		feeds[platform] = &feed
	}
	return feeds, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func searchHandler(logger *slog.Logger, platform string, feed *feedResponse) http.HandlerFunc {
	// Pre-parse names for filtering.
	type indexedProduct struct {
		raw  json.RawMessage
		name string
	}
	products := make([]indexedProduct, 0, len(feed.Products))
	for _, raw := range feed.Products {
		var p productRecord
		//nolint:errcheck,gosec // fixture data is trusted; name extraction is best-effort
		json.Unmarshal(raw, &p)
		products = append(products, indexedProduct{raw: raw, name: strings.ToLower(p.Name)})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
		words := strings.Fields(q)

		// A product matches when its name contains every query word.
		matched := make([]json.RawMessage, 0, len(products))
		for _, p := range products {
			if matchesAll(p.name, words) {
				matched = append(matched, p.raw)
			}
		}

		resp := feedResponse{
			Platform: platform,
			Total:    len(matched),
			Products: matched,
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(resp)
		logger.Info("search", "platform", platform, "query", q, "matched", len(matched))
	}
}

func matchesAll(name string, words []string) bool {
	for _, word := range words {
		if !strings.Contains(name, word) {
			return false
		}
	}
	return true
}
