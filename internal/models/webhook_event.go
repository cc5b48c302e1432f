package models

import "time"

// WebhookEvent records every gateway event we have applied. The unique
// index on (provider, event_id) makes replayed deliveries no-ops: the
// insert fails inside the same transaction that would re-apply the event.
type WebhookEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Provider   string    `gorm:"size:50;not null;uniqueIndex:idx_webhook_provider_event" json:"provider"`
	EventID    string    `gorm:"size:255;not null;uniqueIndex:idx_webhook_provider_event" json:"event_id"`
	EventType  string    `gorm:"size:30;not null" json:"event_type"`
	OrderID    uint      `gorm:"index" json:"order_id"`
	Payload    string    `gorm:"type:text" json:"-"`
	ReceivedAt time.Time `json:"received_at"`
}

func (WebhookEvent) TableName() string { return "webhook_events" }
