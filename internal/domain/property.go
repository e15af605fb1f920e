package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Amenities stores the DB json value as a string slice. It marshals to JSON as
// an array so API responses send amenities as ["wifi","parking"] and stores as
// a json column (Postgres json, sqlite text).
type Amenities []string

// Scan implements sql.Scanner for reading from DB (json column).
func (a *Amenities) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("unsupported type for Amenities")
	}
	if len(b) == 0 {
		*a = nil
		return nil
	}
	return json.Unmarshal(b, a)
}

// Value implements driver.Valuer for writing to DB.
func (a Amenities) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Property is a rental listing owned by a host.
type Property struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OwnerID      uuid.UUID  `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	Title        string     `gorm:"column:title;not null" json:"title"`
	Description  string     `gorm:"column:description" json:"description"`
	PropertyType string     `gorm:"column:property_type;type:varchar(20);not null;default:'apartment'" json:"property_type"`
	City         string     `gorm:"column:city;not null" json:"city"`
	Address      string     `gorm:"column:address;not null" json:"address"`
	Price        float64    `gorm:"column:price;type:decimal(12,2);not null;default:0" json:"price"`
	Bedrooms     int        `gorm:"column:bedrooms;not null;default:0" json:"bedrooms"`
	Bathrooms    int        `gorm:"column:bathrooms;not null;default:0" json:"bathrooms"`
	Area         *float64   `gorm:"column:area;type:decimal(12,2)" json:"area"`
	Latitude     *float64   `gorm:"column:latitude" json:"latitude"`
	Longitude    *float64   `gorm:"column:longitude" json:"longitude"`
	Amenities    Amenities  `gorm:"column:amenities;type:json" json:"amenities"`
	Status       string     `gorm:"column:status;type:varchar(20);not null;default:'draft'" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Images []PropertyImage `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"images"`
}

func (Property) TableName() string {
	return "properties"
}

// BeforeCreate sets id if not already set (DBs without default uuid).
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PropertyImage is one photo attached to a property. The image set is replaced
// wholesale on edit (delete-all then re-insert).
type PropertyImage struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PropertyID   uuid.UUID `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	ImageURL     string    `gorm:"column:image_url;not null" json:"image_url"`
	IsCover      bool      `gorm:"column:is_cover;not null;default:false" json:"is_cover"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func (PropertyImage) TableName() string {
	return "property_images"
}

func (i *PropertyImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
