package subscriptions

import "time"

// WebhookEvent is the dedup marker for provider event delivery. The composite
// unique index is the at-most-once guarantee: whichever request inserts the
// row first owns the side effects for that event id.
type WebhookEvent struct {
	ID         string `gorm:"primaryKey"`
	Provider   string `gorm:"size:32;not null;uniqueIndex:idx_webhook_events_provider_event"`
	EventID    string `gorm:"column:event_id;size:255;not null;uniqueIndex:idx_webhook_events_provider_event"`
	ReceivedAt time.Time
}
