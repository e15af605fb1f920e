package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite marks a (user, property) pair as relevant. The pair is unique;
// toggling deletes or inserts the row.
type Favorite struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_favorites_user_property" json:"user_id"`
	PropertyID uuid.UUID `gorm:"column:property_id;type:uuid;not null;uniqueIndex:idx_favorites_user_property" json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
