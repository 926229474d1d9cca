package preview

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/k3a/html2text"
)

// PageFetcher fetches raw page content through the backend.
type PageFetcher interface {
	FetchPageContent(ctx context.Context, pageURL string) (string, error)
}

// RawResult is one raw-page preview outcome: the rendered text of the
// fetched page, or the fetch error.
type RawResult struct {
	URL  string
	Text string
	Err  error
}

// RawPreviewer keeps a raw-page preview in sync with a changing URL. URL
// changes are debounced; each fired fetch carries a monotonically
// increasing sequence number and only the latest issued request may apply
// its result, so a superseded in-flight fetch can never overwrite a newer
// one regardless of completion order. Deliveries are serialized: the
// recency check and the onResult call happen inside one delivery window,
// so a newer result always lands after any older one that was already
// being delivered.
type RawPreviewer struct {
	fetcher  PageFetcher
	debounce time.Duration
	onResult func(RawResult)

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64 // latest issued request
	stopped bool
	wg      sync.WaitGroup

	applyMu     sync.Mutex // serializes result delivery
	lastApplied uint64     // guarded by mu
}

// NewRawPreviewer creates a previewer that delivers results to onResult.
// Delivery happens on the fetch goroutine; callers serialize their own
// state updates.
func NewRawPreviewer(fetcher PageFetcher, debounce time.Duration, onResult func(RawResult)) *RawPreviewer {
	return &RawPreviewer{
		fetcher:  fetcher,
		debounce: debounce,
		onResult: onResult,
	}
}

// isFetchableURL restricts raw previews to http(s) URLs.
func isFetchableURL(pageURL string) bool {
	u := strings.ToLower(strings.TrimSpace(pageURL))
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// SetURL notes a URL change. The debounce timer restarts on every change,
// cancelling the prior pending fire; non-http(s) URLs cancel any pending
// fetch without issuing a new one.
func (p *RawPreviewer) SetURL(pageURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if !isFetchableURL(pageURL) {
		return
	}

	p.timer = time.AfterFunc(p.debounce, func() {
		p.fire(pageURL)
	})
}

// fire issues one fetch for the debounced URL. A fire that lost the race
// against Stop is a no-op.
func (p *RawPreviewer) fire(pageURL string) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.seq++
	seq := p.seq
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()

		content, err := p.fetcher.FetchPageContent(context.Background(), pageURL)

		// Check-and-apply is one atomic step: applyMu holds the delivery
		// window open across the recency check and the onResult call, so a
		// request issued after the check cannot apply first and then be
		// overwritten by this one.
		p.applyMu.Lock()
		defer p.applyMu.Unlock()

		p.mu.Lock()
		stale := p.stopped || seq != p.seq || seq <= p.lastApplied
		if !stale {
			p.lastApplied = seq
		}
		p.mu.Unlock()
		if stale {
			logger.Debug("discarding superseded raw preview", "url", pageURL, "seq", seq)
			return
		}

		result := RawResult{URL: pageURL, Err: err}
		if err == nil {
			result.Text = html2text.HTML2Text(content)
		}
		p.onResult(result)
	}()
}

// Stop cancels any pending debounce fire and invalidates in-flight
// fetches, then waits for their goroutines to drain. A timer callback
// that already fired but has not yet registered its fetch is turned into
// a no-op. Stop is idempotent.
func (p *RawPreviewer) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.seq++ // in-flight results are now stale
	p.mu.Unlock()

	p.wg.Wait()
}
