package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Promotion is a paid time-boxed visibility boost. A property is promoted at
// instant t iff some row has is_active and start_date <= t <= end_date.
type Promotion struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PropertyID uuid.UUID `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	Plan       string    `gorm:"column:plan;type:varchar(10);not null" json:"plan"`
	StartDate  time.Time `gorm:"column:start_date;not null" json:"start_date"`
	EndDate    time.Time `gorm:"column:end_date;not null" json:"end_date"`
	AmountPaid float64   `gorm:"column:amount_paid;type:decimal(12,2);not null;default:0" json:"amount_paid"`
	IsActive   bool      `gorm:"column:is_active;not null;default:false" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Promotion) TableName() string {
	return "promotions"
}

func (p *Promotion) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
