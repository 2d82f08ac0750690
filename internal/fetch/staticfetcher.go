package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jakopako/pagetrace/internal/log"
)

// The StaticFetcher fetches static page content
type StaticFetcher struct {
	*FetcherConfig
	client *http.Client
}

func NewStaticFetcher(fc *FetcherConfig) *StaticFetcher {
	return &StaticFetcher{
		FetcherConfig: fc,
		client:        &http.Client{},
	}
}

func (s *StaticFetcher) Fetch(ctx context.Context, url string) (string, error) {
	logger := log.LoggerFromContext(ctx)
	logger.Debug("fetching page", slog.String("fetcher", "static"), slog.String("url", url), slog.String("user-agent", s.UserAgent))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.UserAgent)
	req.Header.Set("Accept", "*/*")
	res, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status code error: %d %s", res.StatusCode, res.Status)
	}
	bytes, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (s *StaticFetcher) Cancel() {}
