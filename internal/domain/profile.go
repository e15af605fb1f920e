package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is a user account. Role rows live in user_roles; the effective role
// is the highest one in the renter < host < admin lattice.
type Profile struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Email        string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	AvatarURL    *string   `gorm:"column:avatar_url" json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// UserRole grants one role to one user. A user may hold several rows
// (e.g. renter plus host after become-host).
type UserRole struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_user_roles_user_role" json:"user_id"`
	Role      string    `gorm:"column:role;type:varchar(10);not null;uniqueIndex:idx_user_roles_user_role" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

func (r *UserRole) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
