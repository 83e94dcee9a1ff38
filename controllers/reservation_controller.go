package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"staydesk-backend/services"
	"staydesk-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	Service *services.ReservationService
}

func NewReservationController(service *services.ReservationService) *ReservationController {
	return &ReservationController{Service: service}
}

type stayPayload struct {
	RoomTypeID uint   `json:"roomTypeId"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
}

type createReservationPayload struct {
	GuestName    string                   `json:"guestName"`
	GuestEmail   string                   `json:"guestEmail"`
	Adults       int                      `json:"adults"`
	Children     int                      `json:"children"`
	GuestDetails []map[string]interface{} `json:"guestDetails"`
	Stays        []stayPayload            `json:"stays"`
}

func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var payload createReservationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	input := services.CreateReservationInput{
		GuestName:    payload.GuestName,
		GuestEmail:   payload.GuestEmail,
		Adults:       payload.Adults,
		Children:     payload.Children,
		GuestDetails: payload.GuestDetails,
	}
	for i, st := range payload.Stays {
		checkIn, checkOut, err := parseWindow(st.CheckIn, st.CheckOut)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "stays["+strconv.Itoa(i)+"]: "+err.Error())
			return
		}
		input.Stays = append(input.Stays, services.StayRequest{
			RoomTypeID: st.RoomTypeID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
		})
	}

	reservation, err := rc.Service.Create(input)
	if err != nil {
		if strings.HasPrefix(err.Error(), "validation:") {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, services.ErrNotEnoughUnits) {
			utils.JSONError(c, http.StatusConflict, err.Error())
			return
		}
		log.Printf("create reservation failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to create reservation")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, reservation)
}

func (rc *ReservationController) GetReservations(c *gin.Context) {
	list, err := rc.Service.GetAll()
	if err != nil {
		log.Printf("list reservations failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve reservations")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid reservation id")
		return
	}
	reservation, err := rc.Service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrReservationNotFound) {
			utils.JSONError(c, http.StatusNotFound, "reservation not found")
			return
		}
		log.Printf("get reservation %d failed: %v", id, err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve reservation")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (rc *ReservationController) transition(c *gin.Context, do func(uint) error, okMessage string) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid reservation id")
		return
	}
	if err := do(uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			utils.JSONError(c, http.StatusNotFound, "reservation not found")
		case errors.Is(err, services.ErrAlreadyCancelled),
			errors.Is(err, services.ErrCannotCancel),
			errors.Is(err, services.ErrNotCheckedIn),
			errors.Is(err, services.ErrAlreadyCheckedIn):
			utils.JSONError(c, http.StatusConflict, err.Error())
		default:
			log.Printf("reservation %d transition failed: %v", id, err)
			utils.JSONError(c, http.StatusInternalServerError, "failed to update reservation")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": okMessage})
}

func (rc *ReservationController) CancelReservation(c *gin.Context) {
	rc.transition(c, rc.Service.Cancel, "Reservation cancelled")
}

func (rc *ReservationController) CheckInReservation(c *gin.Context) {
	rc.transition(c, rc.Service.CheckIn, "Reservation checked in")
}

func (rc *ReservationController) CheckoutReservation(c *gin.Context) {
	rc.transition(c, rc.Service.Checkout, "Reservation checked out")
}

// LookupReservation handles the public guest lookup:
// GET /api/reservations/lookup?referenceCode&email
func (rc *ReservationController) LookupReservation(c *gin.Context) {
	reservation, err := rc.Service.LookupByReference(c.Query("referenceCode"), c.Query("email"))
	if err != nil {
		if strings.HasPrefix(err.Error(), "validation:") {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, services.ErrReservationNotFound) {
			utils.JSONError(c, http.StatusNotFound, "reservation not found")
			return
		}
		log.Printf("reservation lookup failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to look up reservation")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

type lookupCancelPayload struct {
	ReferenceCode string `json:"referenceCode"`
	Email         string `json:"email"`
}

// CancelByLookup handles the public guest cancellation:
// POST /api/reservations/lookup/cancel
func (rc *ReservationController) CancelByLookup(c *gin.Context) {
	var payload lookupCancelPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	reservation, err := rc.Service.CancelByReference(payload.ReferenceCode, payload.Email)
	if err != nil {
		switch {
		case strings.HasPrefix(err.Error(), "validation:"):
			utils.JSONError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrReservationNotFound):
			utils.JSONError(c, http.StatusNotFound, "reservation not found")
		case errors.Is(err, services.ErrAlreadyCancelled), errors.Is(err, services.ErrCannotCancel):
			utils.JSONError(c, http.StatusConflict, err.Error())
		default:
			log.Printf("guest cancellation failed: %v", err)
			utils.JSONError(c, http.StatusInternalServerError, "failed to cancel reservation")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}
