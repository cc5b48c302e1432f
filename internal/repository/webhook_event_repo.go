package repository

import (
	"errors"
	"strings"

	"softcart/internal/models"

	"gorm.io/gorm"
)

// ErrEventSeen signals a replayed webhook delivery.
var ErrEventSeen = errors.New("webhook event already processed")

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

func (r *WebhookEventRepository) WithTx(tx *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: tx}
}

// Record inserts the event row; the unique (provider, event_id) index
// turns a replay into ErrEventSeen so the caller can ack without
// re-applying side effects.
func (r *WebhookEventRepository) Record(e *models.WebhookEvent) error {
	err := r.db.Create(e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "Duplicate entry") {
			return ErrEventSeen
		}
		return err
	}
	return nil
}
