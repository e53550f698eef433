// Package metrics defines Prometheus metrics for furnwatch. The binary
// is a one-shot job, so metrics are pushed to a Pushgateway at the end
// of a run instead of being scraped.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "furnwatch"

// Scrape metrics.
var (
	ScrapeListingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scrape_listings_total",
		Help:      "Total number of listings extracted from category pages.",
	}, []string{"category"})

	ScrapeNewItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scrape_new_items_total",
		Help:      "Total number of never-before-seen items persisted.",
	}, []string{"category"})

	ScrapeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scrape_errors_total",
		Help:      "Total number of per-category scrape failures.",
	}, []string{"category"})

	ScrapeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scrape_duration_seconds",
		Help:      "Duration of full scrape cycles in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Alert metrics.
var (
	AlertsFiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_fired_total",
		Help:      "Total number of notifications delivered.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures.",
	})
)

// Push publishes the default registry to a Pushgateway. Call once at the
// end of a run; a push failure is reported but never fatal.
func Push(gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).
		Gatherer(prometheus.DefaultGatherer).
		Push(); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
