package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/mfinch/furniture-watch/internal/engine"
	"github.com/mfinch/furniture-watch/internal/metrics"
	"github.com/mfinch/furniture-watch/internal/notify"
	"github.com/mfinch/furniture-watch/internal/site"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one scrape-and-alert cycle",
		Long: "Fetches every category page, stores listings never seen before,\n" +
			"and notifies about unsold items in the watched categories. Designed\n" +
			"to be invoked periodically from cron or a systemd timer.",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Migrate(ctx); err != nil {
				return err
			}

			client := site.NewHTTPClient(
				site.WithBaseURL(cfg.Site.BaseURL),
				site.WithUserAgent(cfg.Site.UserAgent),
				site.WithHTTPClient(&http.Client{Timeout: cfg.Site.Timeout}),
				site.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.Site.RequestsPerSecond), 1)),
			)

			var notifier notify.Notifier
			if cfg.Alerts.Enabled {
				notifier = notify.NewPushoverNotifier(
					cfg.Pushover.Token,
					cfg.Pushover.User,
					notify.WithAPIURL(cfg.Pushover.APIURL),
				)
			} else {
				notifier = notify.NewNoOpNotifier(log)
			}

			eng := engine.NewEngine(st, client, notifier,
				engine.WithLogger(log),
				engine.WithWatchedCategories(cfg.WatchedCategories()),
				engine.WithNotifyDelay(cfg.Alerts.NotifyDelay),
			)

			if err := eng.RunCycle(ctx); err != nil {
				return err
			}

			if cfg.Metrics.PushgatewayURL != "" {
				if err := metrics.Push(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
					// Metrics are best effort, the cycle already succeeded.
					log.Warn("pushing metrics failed", "error", err)
				}
			}

			return nil
		},
	}
}
