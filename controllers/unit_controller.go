package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"staydesk-backend/config"
	"staydesk-backend/models"

	"github.com/gin-gonic/gin"
)

func GetUnits(c *gin.Context) {
	var units []models.Unit
	q := config.DB.Preload("RoomType")
	if roomTypeID := c.Query("roomTypeId"); roomTypeID != "" {
		q = q.Where("room_type_id = ?", roomTypeID)
	}
	q.Find(&units)
	c.JSON(http.StatusOK, units)
}

type createUnitPayload struct {
	RoomTypeID uint   `json:"roomTypeId"`
	UnitNumber string `json:"unitNumber"`
	Floor      string `json:"floor"`
	IsActive   *bool  `json:"isActive"`
}

func CreateUnit(c *gin.Context) {
	var payload createUnitPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "details": err.Error()})
		return
	}

	payload.UnitNumber = strings.TrimSpace(payload.UnitNumber)
	if payload.UnitNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unitNumber is required"})
		return
	}

	var rt models.RoomType
	if err := config.DB.First(&rt, payload.RoomTypeID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid roomTypeId"})
		return
	}

	// new units are active unless explicitly created inactive
	active := true
	if payload.IsActive != nil {
		active = *payload.IsActive
	}

	unit := models.Unit{
		RoomTypeID: payload.RoomTypeID,
		UnitNumber: payload.UnitNumber,
		Floor:      payload.Floor,
		IsActive:   active,
	}
	if result := config.DB.Create(&unit); result.Error != nil {
		if strings.Contains(result.Error.Error(), "Duplicate entry") || strings.Contains(result.Error.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Unit '%s' already exists for this room type", unit.UnitNumber)})
			return
		}
		log.Printf("create unit failed: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create unit"})
		return
	}
	c.JSON(http.StatusCreated, unit)
}

// UpdateUnit handles PATCH /api/units/:id, including activate/deactivate via
// the isActive field. Deactivated units drop out of inventory immediately.
func UpdateUnit(c *gin.Context) {
	id := c.Param("id")
	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	delete(updateData, "id")
	delete(updateData, "created_at")
	delete(updateData, "updated_at")
	delete(updateData, "deleted_at")

	// camelCase from the dashboard -> column name
	if v, ok := updateData["isActive"]; ok {
		updateData["is_active"] = v
		delete(updateData, "isActive")
	}
	if v, ok := updateData["unitNumber"]; ok {
		updateData["unit_number"] = v
		delete(updateData, "unitNumber")
	}
	if v, ok := updateData["roomTypeId"]; ok {
		updateData["room_type_id"] = v
		delete(updateData, "roomTypeId")
	}

	result := config.DB.Model(&models.Unit{}).Where("id = ?", id).Updates(updateData)
	if result.Error != nil {
		log.Printf("update unit %s failed: %v", id, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "unit not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unit updated"})
}

func DeleteUnit(c *gin.Context) {
	id := c.Param("id")
	result := config.DB.Delete(&models.Unit{}, id)
	if result.Error != nil {
		log.Printf("delete unit %s failed: %v", id, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete unit"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "unit not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unit deleted"})
}
