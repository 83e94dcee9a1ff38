package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomType is a sellable category of interchangeable physical units.
type RoomType struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	PropertyID uint `gorm:"index;column:property_id" json:"propertyId"`

	Name        string  `gorm:"size:255" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `json:"price"`
	MaxGuests   int     `gorm:"column:max_guests" json:"maxGuests"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Units []Unit `gorm:"foreignKey:RoomTypeID" json:"units,omitempty"`
}
