package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentEvent is an audit row for each handled Stripe webhook event. The
// unique index on StripeEventID makes webhook processing idempotent.
type PaymentEvent struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	StripeEventID string         `gorm:"column:stripe_event_id;not null;uniqueIndex" json:"stripe_event_id"`
	EventType     string         `gorm:"column:event_type;not null" json:"event_type"`
	EventData     datatypes.JSON `gorm:"column:event_data;type:jsonb" json:"event_data"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (PaymentEvent) TableName() string {
	return "payment_events"
}

func (e *PaymentEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
