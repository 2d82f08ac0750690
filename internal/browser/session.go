// Package browser observes a live Chrome tab over the DevTools protocol.
// A forwarding script mirrors the page's DOM events into binding calls,
// which a single event loop replays on a dom.Host for the tracker.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// ErrClosed is returned by Run when the browser went away.
var ErrClosed = errors.New("browser closed")

const messageBuffer = 1024

// Config defines how chrome is started.
type Config struct {
	// Show runs chrome with a visible window instead of headless.
	Show           bool   `yaml:"show" env:"BROWSER_SHOW"`
	UserAgent      string `yaml:"user_agent" env:"BROWSER_USER_AGENT"`
	WindowWidth    int    `yaml:"window_width" env:"BROWSER_WINDOW_WIDTH" env-default:"1920"`
	WindowHeight   int    `yaml:"window_height" env:"BROWSER_WINDOW_HEIGHT" env-default:"1080"`
	ExecPath       string `yaml:"exec_path" env:"BROWSER_EXEC_PATH"`
	PageLoadWaitMS int    `yaml:"page_load_wait_ms" env:"BROWSER_PAGE_LOAD_WAIT_MS"`
}

func (c Config) allocatorOptions() []chromedp.ExecAllocatorOption {
	width, height := c.WindowWidth, c.WindowHeight
	if width <= 0 || height <= 0 {
		width, height = 1920, 1080
	}
	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(width, height),
	)
	if c.Show {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if c.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.UserAgent))
	}
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}
	return opts
}

// ReadyFunc is called on the event loop whenever a new document is ready
// in the tab.
type ReadyFunc func(*Page)

// Session owns the chrome tab and the event loop all page events are
// dispatched on.
type Session struct {
	config  Config
	onReady ReadyFunc
	logger  *slog.Logger

	ctx         context.Context
	cancel      context.CancelFunc
	cancelAlloc context.CancelFunc

	payloads chan string
	posts    chan func()
	done     chan struct{}

	page *Page
}

func NewSession(cfg Config, onReady ReadyFunc) *Session {
	return &Session{
		config:   cfg,
		onReady:  onReady,
		logger:   slog.With(slog.String("component", "browser")),
		payloads: make(chan string, messageBuffer),
		posts:    make(chan func()),
		done:     make(chan struct{}),
	}
}

// Open starts chrome, installs the forwarding script and navigates to
// urlStr.
func (s *Session) Open(ctx context.Context, urlStr string) error {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, s.config.allocatorOptions()...)
	s.cancelAlloc = cancelAlloc
	s.ctx, s.cancel = chromedp.NewContext(allocCtx)

	chromedp.ListenTarget(s.ctx, func(ev any) {
		called, ok := ev.(*runtime.EventBindingCalled)
		if !ok || called.Name != bindingName {
			return
		}
		// never block here, chromedp runs listeners on its read loop
		select {
		case s.payloads <- called.Payload:
		default:
			s.logger.Warn("event loop is busy, dropping browser message")
		}
	})

	actions := []chromedp.Action{
		runtime.Enable(),
		runtime.AddBinding(bindingName),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(forwardScript).Do(ctx)
			return err
		}),
		chromedp.Navigate(urlStr),
	}
	if s.config.PageLoadWaitMS > 0 {
		actions = append(actions, chromedp.Sleep(time.Duration(s.config.PageLoadWaitMS)*time.Millisecond))
	}
	if err := chromedp.Run(s.ctx, actions...); err != nil {
		s.Close()
		return fmt.Errorf("failed to open %s: %w", urlStr, err)
	}
	s.logger.Info("watching page", slog.String("url", urlStr))
	return nil
}

// Run is the event loop. It returns when ctx is done or the browser
// closed.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	var browserDone <-chan struct{}
	if s.ctx != nil {
		browserDone = s.ctx.Done()
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-browserDone:
			return ErrClosed
		case payload := <-s.payloads:
			s.handle(payload)
		case fn := <-s.posts:
			fn()
		}
	}
}

// Post schedules fn on the event loop. It reports false if the loop is
// not running anymore.
func (s *Session) Post(fn func()) bool {
	select {
	case s.posts <- fn:
		return true
	case <-s.done:
		return false
	}
}

// Page returns the current document, nil before the first one is ready.
// Only call it on the event loop.
func (s *Session) Page() *Page {
	return s.page
}

func (s *Session) handle(payload string) {
	m, err := decodeMessage(payload)
	if err != nil {
		s.logger.Warn(err.Error())
		return
	}
	if m.Kind == kindReady {
		s.page = newPage(m.Doc)
		s.logger.Debug("document ready", slog.String("url", m.Doc.Href))
		if s.onReady != nil {
			s.onReady(s.page)
		}
		return
	}
	if s.page == nil {
		s.logger.Debug(fmt.Sprintf("no document yet, dropping %s message", m.Kind))
		return
	}
	s.page.update(m.Doc)
	if err := m.dispatch(s.page); err != nil {
		s.logger.Warn(err.Error())
	}
}

// evaluate runs a script in the tab.
func (s *Session) evaluate(timeout time.Duration, script string, res any) error {
	if s.ctx == nil {
		return ErrClosed
	}
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.Evaluate(script, res))
}

func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
	}
}
