package models

import (
	"gorm.io/gorm"
)

// Unit is one physical, bookable room instance of a RoomType.
// Inactive units (renovation, decommissioned) never count toward inventory.
type Unit struct {
	gorm.Model

	RoomTypeID uint   `gorm:"column:room_type_id;uniqueIndex:idx_units_type_number" json:"roomTypeId"`
	UnitNumber string `gorm:"column:unit_number;type:varchar(50);uniqueIndex:idx_units_type_number" json:"unitNumber"`
	Floor      string `gorm:"type:varchar(10)" json:"floor"`
	IsActive   bool   `gorm:"column:is_active;default:true" json:"isActive"`

	RoomType RoomType `gorm:"foreignKey:RoomTypeID" json:"roomType,omitempty"`
}
