package services

import (
	"fmt"
	"time"

	"staydesk-backend/models"
	"staydesk-backend/utils"

	"gorm.io/gorm"
)

// OverlapService resolves which reservation line items collide with a date
// window. It is the single implementation of the overlap rule on the SQL
// side; the in-memory side lives in utils.Overlaps and both must agree.
type OverlapService struct {
	DB *gorm.DB
}

func NewOverlapService(db *gorm.DB) *OverlapService {
	return &OverlapService{DB: db}
}

// Half-open interval intersection, plus the zero-length administrative block
// case. Mirrors utils.Overlaps exactly.
const overlapCondition = `((reservation_rooms.check_in < reservation_rooms.check_out AND reservation_rooms.check_in < ? AND reservation_rooms.check_out > ?)
 OR (reservation_rooms.check_in = reservation_rooms.check_out AND reservation_rooms.check_in >= ? AND reservation_rooms.check_in < ?))`

func (s *OverlapService) blockingLineItems(roomTypeID uint, checkIn, checkOut time.Time) *gorm.DB {
	qStart := utils.DateOnly(checkIn)
	qEnd := utils.DateOnly(checkOut)

	return s.DB.Table("reservation_rooms").
		Joins("JOIN reservations ON reservations.id = reservation_rooms.reservation_id").
		Where("reservation_rooms.room_type_id = ?", roomTypeID).
		Where("reservations.status IN ?", models.BlockingStatuses).
		Where("reservation_rooms.deleted_at IS NULL AND reservations.deleted_at IS NULL").
		Where(overlapCondition, qEnd, qStart, qStart, qEnd)
}

// CountOverlapping counts blocking-status line items whose stay intersects
// [checkIn, checkOut). Line items are counted, not distinct units: capacity
// enforcement at booking time guarantees the count never exceeds inventory.
func (s *OverlapService) CountOverlapping(roomTypeID uint, checkIn, checkOut time.Time) (int64, error) {
	var count int64
	if err := s.blockingLineItems(roomTypeID, checkIn, checkOut).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count overlapping stays for room type %d: %w", roomTypeID, err)
	}
	return count, nil
}

// ListOverlapping fetches the blocking line items intersecting [from, to) in
// one query, for callers that re-check per-day overlap in memory (calendar
// expansion).
func (s *OverlapService) ListOverlapping(roomTypeID uint, from, to time.Time) ([]models.ReservationRoom, error) {
	var items []models.ReservationRoom
	err := s.blockingLineItems(roomTypeID, from, to).
		Select("reservation_rooms.id, reservation_rooms.room_type_id, reservation_rooms.unit_id, reservation_rooms.check_in, reservation_rooms.check_out").
		Order("reservation_rooms.check_in ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping stays for room type %d: %w", roomTypeID, err)
	}
	return items, nil
}
