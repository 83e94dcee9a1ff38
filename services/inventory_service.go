package services

import (
	"errors"
	"fmt"

	"staydesk-backend/models"

	"gorm.io/gorm"
)

// InventoryService reads physical unit inventory. It is the only place that
// knows which units count toward availability (active, not soft-deleted).
type InventoryService struct {
	DB *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{DB: db}
}

// CountActiveUnits returns the number of bookable units for a room type.
// A missing room type yields 0, not an error.
func (s *InventoryService) CountActiveUnits(roomTypeID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Unit{}).
		Where("room_type_id = ? AND is_active = ?", roomTypeID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active units for room type %d: %w", roomTypeID, err)
	}
	return count, nil
}

// RoomTypeExists distinguishes "room type absent" from "room type exists with
// zero active units"; both produce a zero-availability result but upstream
// error reporting cares about the difference.
func (s *InventoryService) RoomTypeExists(roomTypeID uint) (bool, error) {
	var rt models.RoomType
	err := s.DB.Select("id").First(&rt, roomTypeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up room type %d: %w", roomTypeID, err)
	}
	return true, nil
}

// RoomTypeIDs returns every room type id of a property, for bulk availability
// over a whole property.
func (s *InventoryService) RoomTypeIDs(propertyID uint) ([]uint, error) {
	var ids []uint
	err := s.DB.Model(&models.RoomType{}).
		Where("property_id = ?", propertyID).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list room types for property %d: %w", propertyID, err)
	}
	return ids, nil
}
