package engine

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/mfinch/furniture-watch/internal/metrics"
	"github.com/mfinch/furniture-watch/internal/notify"
	domain "github.com/mfinch/furniture-watch/pkg/types"
)

// sweepAlerts walks every watched category, notifies each never-alerted
// unsold item, and marks it alerted only after the send succeeds. A
// failed send leaves the item unmarked so the next cycle retries it.
// Consecutive sends are paced by the configured notify delay.
func (eng *Engine) sweepAlerts(ctx context.Context) int {
	limiter := rate.NewLimiter(rate.Every(eng.notifyDelay), 1)
	sent := 0

	for _, cat := range eng.watched {
		items, err := eng.store.ListUnalerted(ctx, cat)
		if err != nil {
			eng.log.Error("listing pending alerts failed", "category", cat, "error", err)
			continue
		}

		for i := range items {
			if err := limiter.Wait(ctx); err != nil {
				return sent
			}

			item := &items[i]
			if err := eng.notifier.Send(ctx, alertFor(item)); err != nil {
				metrics.NotificationFailuresTotal.Inc()
				eng.log.Error("notification failed", "item_id", item.ID, "error", err)
				continue
			}

			metrics.AlertsFiredTotal.Inc()
			if err := eng.store.MarkAlerted(ctx, item.ID, eng.nowFunc()); err != nil {
				// The user got the message; a bookkeeping failure here
				// risks a duplicate next cycle, which beats a lost alert.
				eng.log.Error("marking item alerted failed", "item_id", item.ID, "error", err)
			}

			sent++
			eng.log.Info("alert sent", "item_id", item.ID, "title", item.DisplayTitle(), "url", item.URL)
		}
	}

	return sent
}

func alertFor(item *domain.Item) *notify.AlertPayload {
	return &notify.AlertPayload{
		Title:    item.DisplayTitle(),
		Price:    item.Price,
		URL:      item.URL,
		Category: item.Category,
	}
}
