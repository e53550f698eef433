// Package domain defines the core business types for furniture-watch.
package domain

import (
	"fmt"
	"time"
)

// Category represents a product grouping on the marketplace site.
// Category pages live at {base_url}/{category}.
type Category string

// Category constants. The site organizes listings by exactly these groups.
const (
	CategorySofa      Category = "sofa"
	CategoryChair     Category = "chair"
	CategoryTable     Category = "table"
	CategoryHomeDecor Category = "home-decor"
)

// Categories returns all known categories in scrape order.
func Categories() []Category {
	return []Category{
		CategorySofa,
		CategoryChair,
		CategoryTable,
		CategoryHomeDecor,
	}
}

// ParseCategory validates a category string from config or CLI input.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Listing represents one marketplace item as scraped from a single page
// load. It is the transient form; Item is the persisted projection.
type Listing struct {
	// ID is the MD5 hex digest of the listing's relative URL path.
	// Identical paths always produce identical IDs, which makes it the
	// natural key for deduplication across runs.
	ID       string   `json:"item_id"`
	Category Category `json:"product_type"`
	Title    *string  `json:"title,omitempty"`
	Sold     bool     `json:"sold"`
	// Price is nil when the markup has no price node or the node holds
	// no parseable amount. nil means "unknown", never "free".
	Price *float64 `json:"price,omitempty"`
	URL   string   `json:"url"`
}

// Item is the durable store row corresponding to a Listing. Rows are
// inserted once and never updated except for AlertSentAt.
type Item struct {
	ID          string    `json:"item_id"`
	Category    Category  `json:"product_type"`
	Title       *string   `json:"title,omitempty"`
	Sold        bool      `json:"sold"`
	Price       *float64  `json:"price,omitempty"`
	URL         string    `json:"url"`
	FirstSeenAt time.Time `json:"first_seen_at"`
	// AlertSentAt transitions from nil to a concrete timestamp exactly
	// once, after a notification for this item has been delivered.
	AlertSentAt *time.Time `json:"alert_sent_dt,omitempty"`
}

// DisplayTitle returns the item title, or a placeholder when the source
// markup omitted one.
func (i *Item) DisplayTitle() string {
	if i.Title == nil || *i.Title == "" {
		return "New listing"
	}
	return *i.Title
}

// JobRun records a single execution of a scrape cycle.
type JobRun struct {
	ID           string     `json:"id"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Status       string     `json:"status"`
	ErrorText    string     `json:"error_text,omitempty"`
	ListingsSeen int        `json:"listings_seen"`
	NewItems     int        `json:"new_items"`
	AlertsSent   int        `json:"alerts_sent"`
}

// Job run status values.
const (
	JobRunStatusRunning = "running"
	JobRunStatusOK      = "ok"
	JobRunStatusError   = "error"
)
