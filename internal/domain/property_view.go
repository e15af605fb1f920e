package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PropertyView is an append-only view event; never mutated or deleted by
// application flow, used only for aggregate counting.
type PropertyView struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PropertyID uuid.UUID  `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	UserID     *uuid.UUID `gorm:"column:user_id;type:uuid" json:"user_id"`
	ViewedAt   time.Time  `gorm:"column:viewed_at;not null;autoCreateTime" json:"viewed_at"`
}

func (PropertyView) TableName() string {
	return "property_views"
}

func (v *PropertyView) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
