package fetch

import (
	"context"
	"errors"
)

var ErrPageNotFound = errors.New("page not found")

// MockFetcher serves the pages of its config from memory.
type MockFetcher struct {
	*FetcherConfig
	pagesMap map[string]string
}

func NewMockFetcher(fc *FetcherConfig) *MockFetcher {
	mf := &MockFetcher{
		FetcherConfig: fc,
		pagesMap:      map[string]string{},
	}
	for _, p := range fc.MockPages {
		mf.pagesMap[p.Url] = p.Content
	}
	return mf
}

func (m *MockFetcher) Fetch(ctx context.Context, urlStr string) (string, error) {
	if p, ok := m.pagesMap[urlStr]; ok {
		return p, nil
	}
	return "", ErrPageNotFound
}

// To comply with the Fetcher interface
func (m *MockFetcher) Cancel() {}
