package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"github.com/jakopako/pagetrace/internal/log"
)

// The DynamicFetcher renders js and returns the resulting document
type DynamicFetcher struct {
	*FetcherConfig
	allocContext context.Context
	cancelAlloc  context.CancelFunc
}

func NewDynamicFetcher(fc *FetcherConfig) *DynamicFetcher {
	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(1920, 1080), // init with a desktop view
	)
	if fc.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(fc.UserAgent))
	}
	allocContext, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	d := &DynamicFetcher{
		FetcherConfig: fc,
		allocContext:  allocContext,
		cancelAlloc:   cancelAlloc,
	}
	if d.PageLoadWaitMS == 0 {
		d.PageLoadWaitMS = 2000 // default
	}
	return d
}

func (d *DynamicFetcher) Cancel() {
	d.cancelAlloc()
}

func (d *DynamicFetcher) Fetch(ctx context.Context, urlStr string) (string, error) {
	logger := log.LoggerFromContext(ctx).With(slog.String("fetcher", "dynamic"), slog.String("url", urlStr))
	logger.Debug("fetching page", slog.String("user-agent", d.UserAgent))
	cctx, cancel := chromedp.NewContext(d.allocContext)
	defer cancel()
	// stop chrome when the caller gives up
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var body string
	sleepTime := time.Duration(d.PageLoadWaitMS) * time.Millisecond
	err := chromedp.Run(cctx,
		chromedp.Navigate(urlStr),
		chromedp.Sleep(sleepTime),
		chromedp.ActionFunc(func(ctx context.Context) error {
			node, err := dom.GetDocument().Do(ctx)
			if err != nil {
				return err
			}
			body, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", urlStr, err)
	}
	logger.Debug(fmt.Sprintf("rendered page after %v", sleepTime))
	return body, nil
}
