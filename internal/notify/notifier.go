// Package notify defines the notification interface and implementations
// for price alert delivery.
package notify

import (
	"context"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// AlertPayload contains the data needed to send a price alert.
type AlertPayload struct {
	WatchName   string          `json:"watch_name"`
	SearchQuery string          `json:"search_query"`
	ProductName string          `json:"product_name"`
	Platform    domain.Platform `json:"platform"`
	Price       float64         `json:"price"`
	MaxPrice    float64         `json:"max_price"`
	Link        string          `json:"link,omitempty"`
	Image       string          `json:"image,omitempty"`
}

// Notifier defines the interface for sending price alert notifications.
type Notifier interface {
	SendAlert(ctx context.Context, alert *AlertPayload) error
	SendBatchAlert(ctx context.Context, alerts []AlertPayload, watchName string) error
}
