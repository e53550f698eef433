// Package engine orchestrates the scrape-and-alert cycle: fetch each
// category page, extract and persist listings, then sweep never-alerted
// items and dispatch notifications.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mfinch/furniture-watch/internal/metrics"
	"github.com/mfinch/furniture-watch/internal/notify"
	"github.com/mfinch/furniture-watch/internal/site"
	"github.com/mfinch/furniture-watch/internal/store"
	"github.com/mfinch/furniture-watch/pkg/extract"
	domain "github.com/mfinch/furniture-watch/pkg/types"
)

const defaultNotifyDelay = 10 * time.Second

// Engine runs one full scrape-and-alert cycle.
type Engine struct {
	store    store.Store
	site     site.Client
	notifier notify.Notifier
	log      *slog.Logger

	categories  []domain.Category
	watched     []domain.Category
	notifyDelay time.Duration
	nowFunc     func() time.Time
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	s store.Store,
	c site.Client,
	n notify.Notifier,
	opts ...Option,
) *Engine {
	eng := &Engine{
		store:       s,
		site:        c,
		notifier:    n,
		log:         slog.Default(),
		categories:  domain.Categories(),
		watched:     []domain.Category{domain.CategorySofa},
		notifyDelay: defaultNotifyDelay,
		nowFunc:     time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithCategories overrides the scraped category list.
func WithCategories(cats []domain.Category) Option {
	return func(e *Engine) {
		e.categories = cats
	}
}

// WithWatchedCategories sets the categories swept for alerts.
func WithWatchedCategories(cats []domain.Category) Option {
	return func(e *Engine) {
		e.watched = cats
	}
}

// WithNotifyDelay sets the fixed pause between consecutive notifications.
func WithNotifyDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.notifyDelay = d
	}
}

// WithNowFunc overrides the time source for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(e *Engine) {
		e.nowFunc = f
	}
}

// RunCycle executes one full cycle: per-category scrape, then alert
// sweep, with a job-run record around the whole thing. A failing
// category never blocks the others, and the sweep always runs so that
// items scraped before a failure still get their alerts.
func (eng *Engine) RunCycle(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.ScrapeDuration.Observe(time.Since(start).Seconds())
	}()

	runID, err := eng.store.InsertJobRun(ctx)
	if err != nil {
		return fmt.Errorf("opening job run: %w", err)
	}

	var (
		listingsSeen int
		newItems     int
		failed       int
	)

	for _, cat := range eng.categories {
		if ctx.Err() != nil {
			break
		}

		seen, inserted, scrapeErr := eng.scrapeCategory(ctx, cat)
		if scrapeErr != nil {
			failed++
			metrics.ScrapeErrorsTotal.WithLabelValues(string(cat)).Inc()
			eng.log.Error("category scrape failed", "category", cat, "error", scrapeErr)
			continue
		}

		listingsSeen += seen
		newItems += inserted
		eng.log.Info("category scraped", "category", cat, "listings", seen, "new", inserted)
	}

	alertsSent := eng.sweepAlerts(ctx)

	status := domain.JobRunStatusOK
	errText := ""
	if failed > 0 && failed == len(eng.categories) {
		status = domain.JobRunStatusError
		errText = "all category scrapes failed"
	}

	if err := eng.store.CompleteJobRun(ctx, runID, status, errText, listingsSeen, newItems, alertsSent); err != nil {
		eng.log.Error("completing job run failed", "run_id", runID, "error", err)
	}

	eng.log.Info("cycle complete",
		"listings_seen", listingsSeen,
		"new_items", newItems,
		"alerts_sent", alertsSent,
		"failed_categories", failed,
		"duration", time.Since(start),
	)

	return ctx.Err()
}

func (eng *Engine) scrapeCategory(ctx context.Context, cat domain.Category) (int, int, error) {
	doc, err := eng.site.FetchCategory(ctx, cat)
	if err != nil {
		return 0, 0, fmt.Errorf("fetching category %s: %w", cat, err)
	}

	listings := extract.Listings(doc, cat, eng.site.BaseURL())
	if len(listings) == 0 {
		// An empty page is "no new data", not an error.
		eng.log.Debug("no listings found", "category", cat)
		return 0, 0, nil
	}

	metrics.ScrapeListingsTotal.WithLabelValues(string(cat)).Add(float64(len(listings)))

	inserted, err := eng.store.InsertListings(ctx, listings)
	if err != nil {
		return 0, 0, fmt.Errorf("storing listings for %s: %w", cat, err)
	}

	metrics.ScrapeNewItemsTotal.WithLabelValues(string(cat)).Add(float64(inserted))

	return len(listings), inserted, nil
}
