// Package snapshot fetches raw page HTML over plain HTTP, for saving
// listing pages to disk and replaying them offline against the static
// session. GasBuddy serves brotli to browser-looking clients, so the
// fetcher negotiates and decodes compression itself.
package snapshot

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/andybalholm/brotli"

	"pumpwatch/internal/types"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher downloads page snapshots.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

// NewFetcher creates a snapshot fetcher with the given request timeout.
func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	transport := &http.Transport{
		DisableCompression: true, // decompression handled below, including brotli
	}
	return &Fetcher{
		client: &http.Client{Transport: transport, Timeout: timeout},
		logger: logger.With("component", "snapshot"),
	}
}

// Fetch downloads one page and returns the decoded body.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &types.SnapshotError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	reader, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", rawURL, err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}

	f.logger.Debug("snapshot fetched", "url", rawURL, "size", len(body), "encoding", resp.Header.Get("Content-Encoding"))
	return body, nil
}

// SaveTo fetches a page and writes the decoded HTML to path, creating
// parent directories as needed.
func (f *Fetcher) SaveTo(ctx context.Context, rawURL, path string) error {
	body, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	f.logger.Info("snapshot saved", "url", rawURL, "path", path, "size", len(body))
	return nil
}

// decodeBody wraps the response body with the matching decompressor.
func decodeBody(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "deflate":
		return flate.NewReader(resp.Body), nil
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}
