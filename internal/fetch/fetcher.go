// Package fetch loads the documents a replay runs against.
package fetch

import (
	"context"
	"fmt"
)

// A Fetcher allows to fetch the content of a web page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Cancel()
}

type FetcherType string

const (
	STATIC_FETCHER_TYPE  FetcherType = "static"
	DYNAMIC_FETCHER_TYPE FetcherType = "dynamic"
	FILE_FETCHER_TYPE    FetcherType = "file"
	MOCK_FETCHER_TYPE    FetcherType = "mock"
)

// MockPage is a page served by the MockFetcher.
type MockPage struct {
	Url     string `yaml:"url"`
	Content string `yaml:"content"`
}

// FetcherConfig defines the necessary parameters to make a new fetcher.
type FetcherConfig struct {
	Type           FetcherType `yaml:"type" env:"FETCHER_TYPE" env-default:"static"`
	UserAgent      string      `yaml:"user_agent" env:"FETCHER_USER_AGENT" env-default:"pagetrace"`
	PageLoadWaitMS int         `yaml:"page_load_wait_ms" env:"FETCHER_PAGE_LOAD_WAIT_MS"`
	MockPages      []MockPage  `yaml:"mock_pages"`
}

// NewFetcher returns a new fetcher depending on the fetcher type
func NewFetcher(fc *FetcherConfig) (Fetcher, error) {
	switch fc.Type {
	case STATIC_FETCHER_TYPE, "":
		return NewStaticFetcher(fc), nil
	case DYNAMIC_FETCHER_TYPE:
		return NewDynamicFetcher(fc), nil
	case FILE_FETCHER_TYPE:
		return NewFileFetcher(fc), nil
	case MOCK_FETCHER_TYPE:
		return NewMockFetcher(fc), nil
	default:
		return nil, fmt.Errorf("fetcher of type '%s' not implemented", fc.Type)
	}
}
