package models

import (
	"time"

	"gorm.io/gorm"
)

// ReservationRoom is one unit's occupation for one stay. CheckIn is the first
// night (inclusive); CheckOut is the morning of departure (exclusive). A row
// with CheckIn == CheckOut is an administrative single-day block.
//
// UnitID may be nil: the stay consumes one unit of the room type, but the
// specific unit can be assigned later by the front desk.
type ReservationRoom struct {
	gorm.Model

	ReservationID uint  `gorm:"index;column:reservation_id" json:"reservationId"`
	RoomTypeID    uint  `gorm:"index;column:room_type_id" json:"roomTypeId"`
	UnitID        *uint `gorm:"column:unit_id" json:"unitId,omitempty"`

	CheckIn  time.Time `gorm:"column:check_in" json:"checkIn"`
	CheckOut time.Time `gorm:"column:check_out" json:"checkOut"`
	Nights   int       `gorm:"column:nights;default:0" json:"nights"`

	Reservation Reservation `gorm:"foreignKey:ReservationID;references:ID" json:"-"`
	RoomType    RoomType    `gorm:"foreignKey:RoomTypeID;references:ID" json:"roomType,omitempty"`
	Unit        *Unit       `gorm:"foreignKey:UnitID;references:ID" json:"unit,omitempty"`
}
