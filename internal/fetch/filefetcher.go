package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/jakopako/pagetrace/internal/log"
)

// The FileFetcher reads pages from the local file system. It accepts
// plain paths as well as file:// urls.
type FileFetcher struct {
	*FetcherConfig
}

func NewFileFetcher(fc *FetcherConfig) *FileFetcher {
	return &FileFetcher{FetcherConfig: fc}
}

func (f *FileFetcher) Fetch(ctx context.Context, urlStr string) (string, error) {
	filename := urlStr
	if u, err := url.Parse(urlStr); err == nil && u.Scheme == "file" {
		filename = u.Path
	}
	log.LoggerFromContext(ctx).Debug("reading page", slog.String("fetcher", "file"), slog.String("file", filename))
	b, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read page: %w", err)
	}
	return string(b), nil
}

func (f *FileFetcher) Cancel() {}
