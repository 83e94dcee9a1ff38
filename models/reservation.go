package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reservation statuses. PENDING, CONFIRMED and CHECKED_IN occupy inventory;
// CANCELLED and COMPLETED do not.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCheckedIn = "CHECKED_IN"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// BlockingStatuses is the single authoritative list of statuses that consume
// inventory. Every availability query must filter on this slice — never on a
// literal status list at the call site.
var BlockingStatuses = []string{StatusPending, StatusConfirmed, StatusCheckedIn}

// IsBlockingStatus reports whether a reservation in the given status still
// occupies its units.
func IsBlockingStatus(status string) bool {
	for _, s := range BlockingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"referenceCode"`
	Status        string `gorm:"column:status;size:32;index" json:"status"`

	GuestName  string `gorm:"column:guest_name;size:255" json:"guestName"`
	GuestEmail string `gorm:"column:guest_email;size:150;index" json:"guestEmail"`

	Adults   int `gorm:"column:adults;default:1" json:"adults"`
	Children int `gorm:"column:children;default:0" json:"children"`

	// Draft guest list captured at booking time; finalized names are collected
	// later by the check-in flow.
	GuestDetails datatypes.JSON `gorm:"column:guest_details" json:"guestDetails,omitempty"`

	CheckedInAt  *time.Time `gorm:"column:checked_in_at" json:"checkedInAt,omitempty"`
	CheckedOutAt *time.Time `gorm:"column:checked_out_at" json:"checkedOutAt,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Rooms []ReservationRoom `gorm:"foreignKey:ReservationID" json:"rooms"`
}
