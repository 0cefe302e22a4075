package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/linkpatrol/internal/fetch"
	"github.com/nao1215/linkpatrol/internal/model"
	"github.com/nao1215/linkpatrol/internal/store"
)

// Fetcher performs the HTTP requests for the engine.
// *fetch.Client satisfies this; tests substitute fakes.
type Fetcher interface {
	// Fetch performs a GET and returns status, headers, and body.
	Fetch(ctx context.Context, url string) (*fetch.Response, error)

	// FetchHeaders performs a GET but discards the body. Used for external
	// URLs where only reachability matters.
	FetchHeaders(ctx context.Context, url string) (*fetch.Response, error)
}

// Event describes one processed URL together with the engine's running
// counters. It is everything a progress reporter needs; the engine itself
// never writes to the terminal.
//
// With more than one worker the callback may be invoked concurrently;
// consumers must do their own locking.
type Event struct {
	// URL is the processed URL.
	URL string

	// Record is the stored outcome. It has already been durably written
	// when the event fires.
	Record *model.Record

	// Success and Failed are the engine's running counters.
	Success int
	Failed  int

	// Processed is Success + Failed.
	Processed int

	// Pending is the frontier size after this URL's links were enqueued.
	Pending int
}

// engineState tracks the run lifecycle.
type engineState int

const (
	stateInit engineState = iota
	stateRunning
	stateDone
)

// ErrAlreadyRun is returned when Run is called on a finished engine.
var ErrAlreadyRun = errors.New("engine has already run")

// Engine orchestrates a crawl: it drains the frontier, dispatches fetches,
// persists outcomes, and feeds discovered links back into the frontier.
type Engine struct {
	site     *model.Site
	base     *url.URL
	frontier *store.Frontier
	results  *store.Results
	fetcher  Fetcher
	policy   followPolicy
	workers  int
	delay    time.Duration
	onResult func(Event)
	logger   *slog.Logger

	// mu guards the fields below plus the pop/enqueue critical sections,
	// which is what makes the visited/queued checks atomic under
	// concurrent workers.
	mu       sync.Mutex
	cond     *sync.Cond
	state    engineState
	inflight map[string]struct{}
	success  int
	failed   int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the number of concurrent workers.
// The default of 1 preserves strictly sequential crawling.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithTrailTracking enables or disables trail-based depth limiting.
func WithTrailTracking(enabled bool) Option {
	return func(e *Engine) {
		e.policy.trailTracking = enabled
	}
}

// WithMaxTrailDepth sets the trail length cap used when trail tracking is
// enabled.
func WithMaxTrailDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.policy.maxTrailDepth = depth
		}
	}
}

// WithDelay sets a politeness delay applied after each processed URL.
func WithDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.delay = d
	}
}

// WithOnResult sets the progress callback.
func WithOnResult(fn func(Event)) Option {
	return func(e *Engine) {
		e.onResult = fn
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine for the given site backed by the given stores.
func NewEngine(site *model.Site, frontier *store.Frontier, results *store.Results, fetcher Fetcher, opts ...Option) (*Engine, error) {
	base, err := url.Parse(site.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", site.BaseURL, err)
	}

	e := &Engine{
		site:     site,
		base:     base,
		frontier: frontier,
		results:  results,
		fetcher:  fetcher,
		policy: followPolicy{
			trailTracking: true,
			maxTrailDepth: DefaultMaxTrailDepth,
		},
		workers:  1,
		inflight: make(map[string]struct{}),
	}
	e.cond = sync.NewCond(&e.mu)

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e, nil
}

// Stats returns the running success and failure counters.
func (e *Engine) Stats() (success, failed int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.success, e.failed
}

// Run seeds the frontier with the site's seed URL and processes tasks until
// the frontier is empty and every worker has finished. Both stores are left
// on disk whatever happens, so a cancelled or crashed run resumes cleanly.
//
// The returned error is nil on a completed crawl, the context error on
// cancellation, and a store error when durable state could not be written.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.state != stateInit {
		e.mu.Unlock()
		return ErrAlreadyRun
	}
	e.state = stateRunning
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.state = stateDone
		e.mu.Unlock()
	}()

	// Seeding is a plain enqueue: on a resumed crawl whose seed is already
	// in the result store this is a no-op and the run continues from
	// whatever the frontier still holds.
	if err := e.enqueue(ctx, model.Task{URL: e.site.Seed}); err != nil {
		return err
	}

	// The group context ends as soon as Wait returns, so only the caller's
	// context can say whether the crawl was interrupted.
	parent := ctx
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for {
		if ctx.Err() != nil {
			break
		}

		e.mu.Lock()
		task, err := e.frontier.Pop(ctx)
		if errors.Is(err, store.ErrEmptyFrontier) {
			if len(e.inflight) == 0 {
				e.mu.Unlock()
				break
			}
			// Workers may still discover links; wait for one to finish.
			e.cond.Wait()
			e.mu.Unlock()
			continue
		}
		if err != nil {
			e.mu.Unlock()
			_ = g.Wait()
			return err
		}
		e.inflight[task.URL] = struct{}{}
		e.mu.Unlock()

		g.Go(func() error {
			defer func() {
				e.mu.Lock()
				delete(e.inflight, task.URL)
				e.cond.Broadcast()
				e.mu.Unlock()
			}()
			return e.step(ctx, task)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return parent.Err()
}

// step processes a single task: fetch, persist, enqueue discovered links,
// emit progress. Only store errors are returned.
func (e *Engine) step(ctx context.Context, task model.Task) error {
	e.logger.Debug("processing", "url", task.URL, "depth", task.Depth())

	rec := e.processURL(ctx, task.URL)

	e.mu.Lock()
	if rec.OK() {
		e.success++
	} else {
		e.failed++
	}
	e.mu.Unlock()

	// The durable write happens before the URL is reported complete
	// anywhere. The frontier entry is already gone, so a crash between pop
	// and this point loses exactly this URL and nothing else.
	if err := e.results.Put(ctx, rec); err != nil {
		return err
	}

	for _, link := range rec.Links {
		if err := e.enqueue(ctx, task.Child(link, task.URL)); err != nil {
			return err
		}
	}

	e.emit(ctx, rec)

	if e.delay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(e.delay):
		}
	}

	return nil
}

// enqueue runs the follow-policy and inserts the task into the frontier if
// its URL has been neither visited nor queued nor is currently in flight.
// The whole check-and-insert is a single critical section, so a URL
// discovered by two pages at once still enters the frontier at most once.
func (e *Engine) enqueue(ctx context.Context, task model.Task) error {
	task.URL = model.Normalize(task.URL)

	if !e.policy.shouldFollow(task) {
		e.logger.Debug("not following", "url", task.URL, "depth", task.Depth())
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, busy := e.inflight[task.URL]; busy {
		return nil
	}

	visited, err := e.results.Contains(ctx, task.URL)
	if err != nil {
		return err
	}
	if visited {
		return nil
	}

	inserted, err := e.frontier.InsertIfAbsent(ctx, task)
	if err != nil {
		return err
	}
	if inserted {
		e.logger.Debug("queued", "url", task.URL, "depth", task.Depth())
	}
	return nil
}

// processURL dispatches a URL to the internal or external path and never
// fails: every error ends up inside the returned record.
func (e *Engine) processURL(ctx context.Context, rawURL string) *model.Record {
	rec := &model.Record{URL: rawURL, FetchedAt: time.Now()}

	if !model.ValidScheme(rawURL) {
		rec.Err = "invalid URL: scheme must be http or https"
		return rec
	}

	if e.site.IsInternal(rawURL) {
		e.processInternal(ctx, rec)
	} else {
		e.processExternal(ctx, rec)
	}
	return rec
}

// processInternal fetches an internal page and, when the response is in the
// ok range and carries HTML, extracts its links.
func (e *Engine) processInternal(ctx context.Context, rec *model.Record) {
	resp, err := e.fetcher.Fetch(ctx, rec.URL)
	if err != nil {
		rec.Err = err.Error()
		return
	}

	rec.Status = resp.StatusCode
	rec.Headers = resp.Headers

	if !rec.OK() {
		return
	}

	contentType := resp.Headers["Content-Type"]
	if !strings.Contains(contentType, "text/html") {
		return
	}

	links, err := ExtractLinks(resp.Body, contentType, e.base)
	if err != nil {
		// Malformed HTML means zero links, not a failed page. The status
		// and headers above are still worth keeping.
		e.logger.Debug("parse failed", "url", rec.URL, "error", err)
		return
	}
	rec.Links = links
}

// processExternal probes an external URL. Links are always empty for
// external URLs; they mark the crawl boundary.
func (e *Engine) processExternal(ctx context.Context, rec *model.Record) {
	resp, err := e.fetcher.FetchHeaders(ctx, rec.URL)
	if err != nil {
		rec.Err = err.Error()
		return
	}

	rec.Status = resp.StatusCode
	rec.Headers = resp.Headers
}

// emit delivers the progress event for a stored record.
func (e *Engine) emit(ctx context.Context, rec *model.Record) {
	if e.onResult == nil {
		return
	}

	e.mu.Lock()
	success, failed := e.success, e.failed
	e.mu.Unlock()

	// Best effort: a failed size query must not fail the crawl.
	pending, err := e.frontier.Size(ctx)
	if err != nil {
		e.logger.Debug("frontier size query failed", "error", err)
	}

	e.onResult(Event{
		URL:       rec.URL,
		Record:    rec,
		Success:   success,
		Failed:    failed,
		Processed: success + failed,
		Pending:   pending,
	})
}
