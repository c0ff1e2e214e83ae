package collector

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dealhound/dealhound/pkg/deals"
	"github.com/dealhound/dealhound/pkg/feeds"
	"github.com/dealhound/dealhound/pkg/scrape"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Source is one configured feed: its URL and the category label stamped
// onto every record it produces.
type Source struct {
	URL      string
	Category string
}

// Config holds everything Collect needs for a single run.
type Config struct {
	Sources []Source
	Fetcher *feeds.Fetcher
	Builder *scrape.Builder

	// Concurrency is the per-feed worker count. Defaults to 1, which
	// reproduces the sequential reference behavior.
	Concurrency int

	// Limiter paces page fetches across all workers. Defaults to one
	// request per 500ms, the courtesy delay toward the remote hosts.
	Limiter *rate.Limiter

	// AbortOnEntryError stops the run at the first failed entry instead
	// of skipping it and continuing.
	AbortOnEntryError bool

	Log Logger // optional; nil = no logging

	// OnFeedDone is called after each feed finishes, for progress
	// reporting. It must not affect the returned records.
	OnFeedDone func(source Source, built, failed int)
}

// Result is a collection run's outcome. FeedErrors and FeedsOK let a
// caller tell "every feed failed" apart from "feeds were fine but empty".
type Result struct {
	Deals       []deals.ScrapedDeal
	FeedErrors  map[string]error
	EntryErrors []error
	FeedsOK     int
}

// Collect iterates the configured sources in order, fetches each feed's
// entries, and builds a record per entry. A feed that cannot be fetched
// contributes zero records and the run continues. Entry failures are
// skipped (and recorded) unless AbortOnEntryError is set. Output order is
// deterministic: source order, then entry order within each feed. Only
// fully built records are appended, so cancelling the context mid-run
// never leaves a partial record in the result.
func Collect(ctx context.Context, cfg Config) (*Result, error) {
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = feeds.NewFetcher()
	}
	builder := cfg.Builder
	if builder == nil {
		builder = scrape.NewBuilder(nil)
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(500*time.Millisecond), 1)
	}

	result := &Result{FeedErrors: make(map[string]error)}

	for _, source := range cfg.Sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		entries, err := fetcher.Fetch(ctx, source.URL)
		if err != nil {
			log.Warnf("Feed %s failed, contributing zero entries: %v", source.URL, err)
			result.FeedErrors[source.URL] = err
			continue
		}
		result.FeedsOK++
		log.Debugf("Feed %s returned %d entries", source.URL, len(entries))

		built, errs := buildEntries(ctx, builder, limiter, source, entries, concurrency, cfg.AbortOnEntryError, log)

		var failed int
		for i := range entries {
			if errs[i] != nil {
				failed++
				result.EntryErrors = append(result.EntryErrors, errs[i])
				if cfg.AbortOnEntryError {
					return result, errs[i]
				}
				continue
			}
			if built[i] != nil {
				result.Deals = append(result.Deals, *built[i])
			}
		}

		if cfg.OnFeedDone != nil {
			cfg.OnFeedDone(source, len(entries)-failed, failed)
		}

		if err := ctx.Err(); err != nil {
			return result, err
		}
	}

	return result, nil
}

// buildEntries runs the per-entry builds on a bounded worker pool,
// pacing every page fetch through the shared limiter. Results come back
// indexed by entry position so the caller can keep feed order. When
// abort is set the first failure cancels the pool, so no further pages
// are fetched. Cancellation itself is not an entry failure: entries cut
// short by it stay out of errs.
func buildEntries(
	ctx context.Context,
	builder *scrape.Builder,
	limiter *rate.Limiter,
	source Source,
	entries []feeds.Entry,
	concurrency int,
	abort bool,
	log Logger,
) ([]*deals.ScrapedDeal, []error) {
	built := make([]*deals.ScrapedDeal, len(entries))
	errs := make([]error, len(entries))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if concurrency > len(entries) && len(entries) > 0 {
		concurrency = len(entries)
	}

	indexChan := make(chan int, len(entries))
	for i := range entries {
		indexChan <- i
	}
	close(indexChan)

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexChan {
				if err := limiter.Wait(ctx); err != nil {
					// Only fails when the context is done.
					continue
				}

				deal, err := builder.Build(ctx, source.Category, entries[i])
				if err != nil {
					if ctx.Err() != nil {
						continue
					}
					log.Warnf("Failed to build record for %s: %v", entries[i].Link, err)
					errs[i] = err
					if abort {
						cancel()
					}
					continue
				}
				built[i] = deal
			}
		}()
	}
	wg.Wait()

	return built, errs
}
