// Package notify defines the notification interface and implementations
// for new-item alert delivery.
package notify

import (
	"context"
	"fmt"

	domain "github.com/mfinch/furniture-watch/pkg/types"
)

// AlertPayload contains the data needed to send one new-item alert.
type AlertPayload struct {
	Title    string
	Price    *float64
	URL      string
	Category domain.Category
}

// Message renders the human-readable alert text. The price suffix is
// omitted when the price is unknown; "for $0" would misrepresent an
// unpriced item.
func (p *AlertPayload) Message() string {
	if p.Price == nil {
		return p.Title
	}
	return fmt.Sprintf("%s for $%.2f", p.Title, *p.Price)
}

// Notifier defines the interface for sending new-item alerts.
type Notifier interface {
	Send(ctx context.Context, alert *AlertPayload) error
}
