// Package store defines the datastore abstraction for furniture-watch.
// Business logic depends on the Store interface, never on the concrete
// SQLite implementation, which keeps the engine testable with fakes.
package store

import (
	"context"
	"time"

	domain "github.com/mfinch/furniture-watch/pkg/types"
)

// Store defines all data access operations for furniture-watch.
type Store interface {
	// Items
	//
	// InsertListings persists scraped listings with insert-or-ignore
	// semantics: rows whose id already exists are left completely
	// untouched. Returns the number of newly inserted rows.
	InsertListings(ctx context.Context, listings []domain.Listing) (int, error)
	// ListUnalerted returns unsold items of the category that have never
	// been alerted, in first-seen order. The ordering is part of the
	// contract: alert sweeps must be deterministic.
	ListUnalerted(ctx context.Context, category domain.Category) ([]domain.Item, error)
	// MarkAlerted records that a notification went out for the item.
	// Calling it again overwrites the timestamp, which is harmless.
	MarkAlerted(ctx context.Context, id string, t time.Time) error
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	ListItems(ctx context.Context, category *domain.Category, limit int) ([]domain.Item, error)
	CountItems(ctx context.Context) (total int, unalerted int, err error)

	// Job runs
	InsertJobRun(ctx context.Context) (id string, err error)
	CompleteJobRun(ctx context.Context, id, status, errText string, listingsSeen, newItems, alertsSent int) error
	ListJobRuns(ctx context.Context, limit int) ([]domain.JobRun, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
	Close() error
}
