package controllers

import (
	"net/http"

	"staydesk-backend/config"
	"staydesk-backend/models"

	"github.com/gin-gonic/gin"
)

func GetRoomTypes(c *gin.Context) {
	var types []models.RoomType
	q := config.DB
	if propertyID := c.Query("propertyId"); propertyID != "" {
		q = q.Where("property_id = ?", propertyID)
	}
	q.Preload("Units").Find(&types)
	c.JSON(http.StatusOK, types)
}

func CreateRoomType(c *gin.Context) {
	var rt models.RoomType
	if err := c.ShouldBindJSON(&rt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if rt.PropertyID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "propertyId is required"})
		return
	}

	var property models.Property
	if err := config.DB.First(&property, rt.PropertyID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid propertyId"})
		return
	}

	if err := config.DB.Create(&rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room type"})
		return
	}
	c.JSON(http.StatusCreated, rt)
}

func UpdateRoomType(c *gin.Context) {
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

	result := config.DB.Model(&models.RoomType{}).Where("id = ?", id).Updates(updateData)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "room type not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room type updated"})
}

func DeleteRoomType(c *gin.Context) {
	id := c.Param("id")
	result := config.DB.Delete(&models.RoomType{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete room type"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "room type not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room type deleted"})
}
