package alerts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"schoolhub/internal/logging"

	"golang.org/x/sync/singleflight"
)

// maxSheetBytes caps how much of the published sheet is read.
const maxSheetBytes = 2 << 20

// fetchTimeout bounds a shared load once it no longer follows any one caller.
const fetchTimeout = 30 * time.Second

// IsConfiguredURL reports whether raw looks like an absolute http(s) address.
// The sample config ships with a placeholder, which fails this check.
func IsConfiguredURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetcher loads the published alert sheet. It makes a single attempt per
// call with no retry and no cache. Concurrent calls for the same URL share
// one request.
type Fetcher struct {
	client     *http.Client
	metrics    *Metrics
	group      singleflight.Group
	generation atomic.Uint64
}

// NewFetcher returns a Fetcher using client, or http.DefaultClient when nil.
func NewFetcher(client *http.Client, metrics *Metrics) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client, metrics: metrics}
}

// Fetch retrieves and parses the sheet at rawURL. It never returns an error:
// every failure becomes a FeedFailed feed, and an unset URL becomes an
// empty loaded feed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) Feed {
	if !IsConfiguredURL(rawURL) {
		logging.FeedWarn("%v (%q); showing no alerts", ErrNotConfigured, rawURL)
		f.metrics.observe(OutcomeUnconfigured, 0, 0)
		return f.stamp(Loaded(nil))
	}

	if err := ctx.Err(); err != nil {
		return f.fail(fmt.Errorf("%w: %v", ErrTransport, err))
	}

	// Joined callers share one load, so it must outlive the caller that started it.
	ch := f.group.DoChan(rawURL, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return f.stamp(f.load(loadCtx, rawURL)), nil
	})
	select {
	case res := <-ch:
		if res.Shared {
			logging.FeedDebug("joined in-flight fetch of %s", rawURL)
		}
		return res.Val.(Feed)
	case <-ctx.Done():
		// Unstamped, so it cannot outrank the shared result on a board.
		return f.fail(fmt.Errorf("%w: %v", ErrTransport, ctx.Err()))
	}
}

func (f *Fetcher) stamp(feed Feed) Feed {
	feed.Generation = f.generation.Add(1)
	return feed
}

// load is the one place where failures turn into feed states.
func (f *Fetcher) load(ctx context.Context, rawURL string) (feed Feed) {
	defer func() {
		if r := recover(); r != nil {
			feed = f.fail(fmt.Errorf("alert pipeline panic: %v", r))
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return f.fail(fmt.Errorf("%w: build request: %v", ErrTransport, err))
	}
	req.Header.Set("Accept", "text/csv,text/plain;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return f.fail(fmt.Errorf("%w: %v", ErrTransport, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return f.fail(fmt.Errorf("%w: HTTP %d fetching alert sheet", ErrTransport, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSheetBytes))
	if err != nil {
		return f.fail(fmt.Errorf("%w: read body: %v", ErrTransport, err))
	}

	text := string(body)
	if strings.TrimSpace(text) == "" {
		logging.Feed("alert sheet is empty")
		f.metrics.observe(OutcomeEmpty, 0, 0)
		return Loaded(nil)
	}

	records, report := ParseReport(text)
	if len(records) == 0 {
		if err := report.Err(); err != nil {
			logging.FeedWarn("alert sheet discarded: %v", err)
		} else {
			logging.Feed("alert sheet loaded with no usable alerts (%d rows)", report.Rows)
		}
		f.metrics.observe(OutcomeEmpty, 0, len(report.DroppedRows))
		return Loaded(records)
	}

	logging.Feed("alert sheet loaded: %d alerts", len(records))
	f.metrics.observe(OutcomeLoaded, len(records), len(report.DroppedRows))
	return Loaded(records)
}

func (f *Fetcher) fail(err error) Feed {
	logging.FeedError("failed to load alert sheet; defaulting to no alerts: %v", err)
	f.metrics.observe(OutcomeFailed, 0, 0)
	return Failed(err)
}
