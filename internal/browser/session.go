// Package browser owns the lifecycle of headless Chrome sessions used to
// render the source site before extraction.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// ErrWaitTimeout is returned by HTML when the wait selector does not appear
// within the bounded wait. Callers treat it as "nothing rendered", not as a
// fatal fault.
var ErrWaitTimeout = errors.New("timed out waiting for selector")

// Config holds browser launch options
type Config struct {
	Headless  bool
	NoSandbox bool
}

// Session is one headless Chrome instance, reused across page loads within a
// single scraping phase. Close must run on every exit path.
type Session struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// NewSession launches a browser with quiet, server-friendly flags
func NewSession(parent context.Context, cfg Config) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-logging", true),
		chromedp.Flag("log-level", "3"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	// Launch now so a broken Chrome install fails at acquire time rather
	// than on the first navigation
	if err := chromedp.Run(browserCtx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	log.Debug().Bool("headless", cfg.Headless).Msg("Browser session started")

	return &Session{
		ctx:         browserCtx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
	}, nil
}

// HTML navigates to url, waits for waitSelector to become visible within
// wait, and returns the rendered document HTML. A wait that expires returns
// ErrWaitTimeout; the session stays usable for further navigations.
//
// The wait timeout is the only interruption mechanism for an in-flight page
// load; ctx is checked between steps, not mid-wait.
func (s *Session) HTML(ctx context.Context, url, waitSelector string, wait time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := chromedp.Run(s.ctx, chromedp.Navigate(url)); err != nil {
		return "", fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	waitCtx, cancel := context.WithTimeout(s.ctx, wait)
	defer cancel()

	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(waitSelector, chromedp.ByQuery)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrWaitTimeout
		}
		return "", fmt.Errorf("failed waiting for %q: %w", waitSelector, err)
	}

	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to capture page HTML: %w", err)
	}

	return html, nil
}

// Close tears the browser down
func (s *Session) Close() {
	s.cancelCtx()
	s.cancelAlloc()
	log.Debug().Msg("Browser session closed")
}
