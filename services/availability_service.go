package services

import (
	"fmt"
	"time"

	"staydesk-backend/models"
	"staydesk-backend/utils"
)

// InventoryReader is the unit-inventory read interface the engine consumes.
type InventoryReader interface {
	CountActiveUnits(roomTypeID uint) (int64, error)
	RoomTypeExists(roomTypeID uint) (bool, error)
	RoomTypeIDs(propertyID uint) ([]uint, error)
}

// ReservationReader is the stay-overlap read interface the engine consumes.
type ReservationReader interface {
	CountOverlapping(roomTypeID uint, checkIn, checkOut time.Time) (int64, error)
	ListOverlapping(roomTypeID uint, from, to time.Time) ([]models.ReservationRoom, error)
}

// AvailabilityCheck is one (room type, window) question for EvaluateMany.
type AvailabilityCheck struct {
	RoomTypeID uint
	CheckIn    time.Time
	CheckOut   time.Time
}

// AvailabilityService computes unit-level availability. It is a pure read
// path: no locking, no retries, no state between calls. Every caller — point
// checks, bulk checks, calendars — goes through Evaluate so the overlap and
// blocking-status rules cannot drift between surfaces.
type AvailabilityService struct {
	Inventory    InventoryReader
	Reservations ReservationReader

	// LowStockThreshold marks results as limitedAvailability when
	// 0 < availableUnits <= threshold.
	LowStockThreshold int
}

func NewAvailabilityService(inv InventoryReader, res ReservationReader, lowStockThreshold int) *AvailabilityService {
	if lowStockThreshold < 0 {
		lowStockThreshold = 0
	}
	return &AvailabilityService{
		Inventory:         inv,
		Reservations:      res,
		LowStockThreshold: lowStockThreshold,
	}
}

func (s *AvailabilityService) result(roomTypeID uint, total, booked int64) models.UnitAvailabilityResult {
	available := total - booked
	if available < 0 {
		available = 0
	}
	return models.UnitAvailabilityResult{
		RoomTypeID:          roomTypeID,
		TotalUnits:          int(total),
		BookedUnits:         int(booked),
		AvailableUnits:      int(available),
		Available:           available > 0,
		LimitedAvailability: available > 0 && available <= int64(s.LowStockThreshold),
	}
}

func (s *AvailabilityService) statusFor(availableUnits int) string {
	switch {
	case availableUnits <= 0:
		return models.AvailabilityUnavailable
	case availableUnits <= s.LowStockThreshold:
		return models.AvailabilityLimited
	default:
		return models.AvailabilityAvailable
	}
}

// Evaluate answers one availability question for [checkIn, checkOut).
// A nonexistent or unitless room type is a normal all-zero result, not an
// error; only infrastructure failures return err.
func (s *AvailabilityService) Evaluate(roomTypeID uint, checkIn, checkOut time.Time) (models.UnitAvailabilityResult, error) {
	checkIn = utils.DateOnly(checkIn)
	checkOut = utils.DateOnly(checkOut)
	if !checkIn.Before(checkOut) {
		return models.UnitAvailabilityResult{}, fmt.Errorf("validation: check-in %s must be before check-out %s",
			utils.FormatDate(checkIn), utils.FormatDate(checkOut))
	}

	total, err := s.Inventory.CountActiveUnits(roomTypeID)
	if err != nil {
		return models.UnitAvailabilityResult{}, err
	}
	if total == 0 {
		// nonexistent room type or all units inactive; skip the overlap query
		return s.result(roomTypeID, 0, 0), nil
	}

	booked, err := s.Reservations.CountOverlapping(roomTypeID, checkIn, checkOut)
	if err != nil {
		return models.UnitAvailabilityResult{}, err
	}
	return s.result(roomTypeID, total, booked), nil
}

// EvaluateMany fans independent checks out to Evaluate, preserving input
// order and length. Checks do not interact: each is answered against the
// persisted state, never against another check's hypothetical booking. Any
// infrastructure failure fails the whole batch — callers never see a mix of
// computed and failed entries.
func (s *AvailabilityService) EvaluateMany(checks []AvailabilityCheck) ([]models.UnitAvailabilityResult, error) {
	results := make([]models.UnitAvailabilityResult, 0, len(checks))
	for i, check := range checks {
		res, err := s.Evaluate(check.RoomTypeID, check.CheckIn, check.CheckOut)
		if err != nil {
			return nil, fmt.Errorf("check %d (room type %d): %w", i, check.RoomTypeID, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// EvaluateProperty runs a bulk check across every room type of a property
// for one window.
func (s *AvailabilityService) EvaluateProperty(propertyID uint, checkIn, checkOut time.Time) ([]models.UnitAvailabilityResult, error) {
	ids, err := s.Inventory.RoomTypeIDs(propertyID)
	if err != nil {
		return nil, err
	}
	checks := make([]AvailabilityCheck, 0, len(ids))
	for _, id := range ids {
		checks = append(checks, AvailabilityCheck{RoomTypeID: id, CheckIn: checkIn, CheckOut: checkOut})
	}
	return s.EvaluateMany(checks)
}

// ExpandMonth produces one DateAvailabilityInfo per calendar day of the
// month, ascending. The line items overlapping the month are fetched once
// and each day's count is resolved in memory against the same overlap rule
// the SQL path uses — a month must never cost one query per day.
func (s *AvailabilityService) ExpandMonth(roomTypeID uint, year int, month time.Month) ([]models.DateAvailabilityInfo, error) {
	total, err := s.Inventory.CountActiveUnits(roomTypeID)
	if err != nil {
		return nil, err
	}

	monthStart, monthEnd := utils.MonthWindow(year, month)
	days := utils.DaysInMonth(year, month)

	var items []models.ReservationRoom
	if total > 0 {
		items, err = s.Reservations.ListOverlapping(roomTypeID, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
	}

	out := make([]models.DateAvailabilityInfo, 0, days)
	for d := 0; d < days; d++ {
		dayStart := monthStart.AddDate(0, 0, d)
		dayEnd := dayStart.AddDate(0, 0, 1)

		booked := 0
		for _, item := range items {
			if utils.Overlaps(utils.DateOnly(item.CheckIn), utils.DateOnly(item.CheckOut), dayStart, dayEnd) {
				booked++
			}
		}

		available := int(total) - booked
		if available < 0 {
			available = 0
		}
		out = append(out, models.DateAvailabilityInfo{
			Date:           utils.FormatDate(dayStart),
			AvailableUnits: available,
			TotalUnits:     int(total),
			Status:         s.statusFor(available),
		})
	}
	return out, nil
}
