package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"staydesk-backend/services"
	"staydesk-backend/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityController is the HTTP boundary of the availability engine.
// Validation lives here; business "not found" is a normal zero result and
// never an HTTP error.
type AvailabilityController struct {
	Service *services.AvailabilityService
}

func NewAvailabilityController(service *services.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{Service: service}
}

func parseRoomTypeID(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("roomTypeId is required")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("roomTypeId must be a positive integer")
	}
	return uint(id), nil
}

func parseWindow(checkInRaw, checkOutRaw string) (time.Time, time.Time, error) {
	if strings.TrimSpace(checkInRaw) == "" || strings.TrimSpace(checkOutRaw) == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("checkIn and checkOut are required")
	}
	checkIn, err := utils.ParseDate(checkInRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	checkOut, err := utils.ParseDate(checkOutRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !checkIn.Before(checkOut) {
		return time.Time{}, time.Time{}, fmt.Errorf("checkIn must be before checkOut")
	}
	return checkIn, checkOut, nil
}

// GetAvailability handles GET /api/availability?roomTypeId&checkIn&checkOut
func (ac *AvailabilityController) GetAvailability(c *gin.Context) {
	roomTypeID, err := parseRoomTypeID(c.Query("roomTypeId"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	checkIn, checkOut, err := parseWindow(c.Query("checkIn"), c.Query("checkOut"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := ac.Service.Evaluate(roomTypeID, checkIn, checkOut)
	if err != nil {
		log.Printf("availability check failed (room type %d): %v", roomTypeID, err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute availability")
		return
	}
	c.JSON(http.StatusOK, result)
}

type bulkCheckRequest struct {
	RoomTypeID uint   `json:"roomTypeId"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
}

type bulkRequest struct {
	Checks []bulkCheckRequest `json:"checks"`
}

// BulkAvailability handles POST /api/availability/bulk.
//
// Malformed entries fail the whole request with an index-specific 400 — a
// client bug. An unknown room type in a well-formed entry is a legitimate
// empty state and yields the all-zero result at its position.
func (ac *AvailabilityController) BulkAvailability(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	checks := make([]services.AvailabilityCheck, 0, len(req.Checks))
	for i, raw := range req.Checks {
		if raw.RoomTypeID == 0 {
			utils.JSONError(c, http.StatusBadRequest, fmt.Sprintf("checks[%d]: roomTypeId is required", i))
			return
		}
		checkIn, checkOut, err := parseWindow(raw.CheckIn, raw.CheckOut)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, fmt.Sprintf("checks[%d]: %v", i, err))
			return
		}
		checks = append(checks, services.AvailabilityCheck{
			RoomTypeID: raw.RoomTypeID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
		})
	}

	results, err := ac.Service.EvaluateMany(checks)
	if err != nil {
		log.Printf("bulk availability failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute availability")
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetCalendar handles GET /api/availability/calendar?roomTypeId&month=YYYY-MM
func (ac *AvailabilityController) GetCalendar(c *gin.Context) {
	roomTypeID, err := parseRoomTypeID(c.Query("roomTypeId"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	monthRaw := strings.TrimSpace(c.Query("month"))
	if monthRaw == "" {
		utils.JSONError(c, http.StatusBadRequest, "month is required (YYYY-MM)")
		return
	}
	year, month, err := utils.ParseMonth(monthRaw)
	if err != nil {
		if errors.Is(err, utils.ErrMonthRange) {
			utils.JSONError(c, http.StatusBadRequest, "Month must be between 01 and 12")
		} else {
			utils.JSONError(c, http.StatusBadRequest, "month must be in YYYY-MM format")
		}
		return
	}

	days, err := ac.Service.ExpandMonth(roomTypeID, year, month)
	if err != nil {
		log.Printf("calendar expansion failed (room type %d, %s): %v", roomTypeID, monthRaw, err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute calendar availability")
		return
	}
	c.JSON(http.StatusOK, days)
}

// GetPropertyAvailability handles GET /api/properties/:id/availability —
// one bulk evaluation across every room type of the property.
func (ac *AvailabilityController) GetPropertyAvailability(c *gin.Context) {
	propertyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || propertyID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "property id must be a positive integer")
		return
	}
	checkIn, checkOut, err := parseWindow(c.Query("checkIn"), c.Query("checkOut"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	results, err := ac.Service.EvaluateProperty(uint(propertyID), checkIn, checkOut)
	if err != nil {
		log.Printf("property availability failed (property %d): %v", propertyID, err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute availability")
		return
	}
	c.JSON(http.StatusOK, results)
}
