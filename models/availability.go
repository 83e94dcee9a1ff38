package models

// Availability status strings used by calendar displays.
const (
	AvailabilityAvailable   = "available"
	AvailabilityLimited     = "limited"
	AvailabilityUnavailable = "unavailable"
)

// UnitAvailabilityResult is the computed outcome of one availability check.
// Not persisted.
type UnitAvailabilityResult struct {
	RoomTypeID          uint `json:"roomTypeId"`
	TotalUnits          int  `json:"totalUnits"`
	BookedUnits         int  `json:"bookedUnits"`
	AvailableUnits      int  `json:"availableUnits"`
	Available           bool `json:"available"`
	LimitedAvailability bool `json:"limitedAvailability"`
}

// DateAvailabilityInfo is one calendar day's availability for a room type.
// Not persisted.
type DateAvailabilityInfo struct {
	Date           string `json:"date"`
	AvailableUnits int    `json:"availableUnits"`
	TotalUnits     int    `json:"totalUnits"`
	Status         string `json:"status"`
}
