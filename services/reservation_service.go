package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"staydesk-backend/models"
	"staydesk-backend/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel business errors surfaced to controllers.
var (
	ErrReservationNotFound = errors.New("reservation_not_found")
	ErrNotEnoughUnits      = errors.New("not_enough_units")
	ErrAlreadyCancelled    = errors.New("already_cancelled")
	ErrCannotCancel        = errors.New("cannot_cancel_checked_in")
	ErrNotCheckedIn        = errors.New("not_checked_in")
	ErrAlreadyCheckedIn    = errors.New("already_checked_in")
)

// StayRequest is one requested unit occupation: one unit of a room type for
// [CheckIn, CheckOut).
type StayRequest struct {
	RoomTypeID uint      `json:"roomTypeId"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
}

// CreateReservationInput carries everything needed to create a reservation
// with one or more line items.
type CreateReservationInput struct {
	GuestName    string
	GuestEmail   string
	Adults       int
	Children     int
	GuestDetails []map[string]interface{}
	Stays        []StayRequest
}

// ReservationService owns the reservation lifecycle. Capacity is enforced
// here, at creation time, inside the transaction — the availability engine
// itself only reports state.
type ReservationService struct {
	DB           *gorm.DB
	Availability *AvailabilityService
}

func NewReservationService(db *gorm.DB, availability *AvailabilityService) *ReservationService {
	return &ReservationService{DB: db, Availability: availability}
}

func getStringFromMap(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if s, ok2 := v.(string); ok2 {
				return strings.TrimSpace(s)
			}
			return strings.TrimSpace(fmt.Sprintf("%v", v))
		}
	}
	return ""
}

func normalizeGuestList(guestList []map[string]interface{}) []map[string]interface{} {
	if len(guestList) == 0 {
		return []map[string]interface{}{}
	}
	out := make([]map[string]interface{}, 0, len(guestList))
	for _, g := range guestList {
		name := getStringFromMap(g, "name", "fullName", "full_name")
		typ := getStringFromMap(g, "type", "guestType", "guest_type")
		if name == "" {
			continue
		}
		if typ == "" {
			typ = "Adult"
		}
		out = append(out, map[string]interface{}{"fullName": name, "type": typ})
	}
	return out
}

// Create validates capacity per (room type, window) group, then writes the
// reservation and its line items in one transaction.
func (s *ReservationService) Create(input CreateReservationInput) (models.Reservation, error) {
	var created models.Reservation

	if len(input.Stays) == 0 {
		return created, fmt.Errorf("validation: no stays provided")
	}
	if strings.TrimSpace(input.GuestName) == "" {
		return created, fmt.Errorf("validation: guest name is required")
	}
	if input.Adults <= 0 {
		input.Adults = 1
	}
	if input.Children < 0 {
		input.Children = 0
	}

	type window struct {
		roomTypeID uint
		checkIn    time.Time
		checkOut   time.Time
	}
	requested := map[window]int{}
	for i := range input.Stays {
		st := &input.Stays[i]
		st.CheckIn = utils.DateOnly(st.CheckIn)
		st.CheckOut = utils.DateOnly(st.CheckOut)
		if st.RoomTypeID == 0 {
			return created, fmt.Errorf("validation: stay %d missing room type", i)
		}
		if !st.CheckIn.Before(st.CheckOut) {
			return created, fmt.Errorf("validation: stay %d check-in must be before check-out", i)
		}
		requested[window{st.RoomTypeID, st.CheckIn, st.CheckOut}]++
	}

	// Capacity check against current persisted state. A concurrent booking
	// can still race this read; the unique constraints and the front desk
	// reconcile that, same as every other surface of the platform.
	for w, n := range requested {
		res, err := s.Availability.Evaluate(w.roomTypeID, w.checkIn, w.checkOut)
		if err != nil {
			return created, err
		}
		if res.AvailableUnits < n {
			return created, fmt.Errorf("%w: room type %d has %d unit(s) free for %s..%s, %d requested",
				ErrNotEnoughUnits, w.roomTypeID, res.AvailableUnits,
				utils.FormatDate(w.checkIn), utils.FormatDate(w.checkOut), n)
		}
	}

	guestJSON, _ := json.Marshal(normalizeGuestList(input.GuestDetails))

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var reference string
		// retry on the (unlikely) unique collision
		for attempt := 0; attempt < 5; attempt++ {
			code, err := utils.GenerateReferenceCode(8)
			if err != nil {
				return fmt.Errorf("failed to generate reference code: %w", err)
			}
			reference = code
			var n int64
			if err := tx.Model(&models.Reservation{}).Where("reference_code = ?", reference).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				break
			}
			log.Printf("reference code collision (attempt %d) - retrying", attempt+1)
		}

		reservation := models.Reservation{
			ReferenceCode: reference,
			Status:        models.StatusConfirmed,
			GuestName:     strings.TrimSpace(input.GuestName),
			GuestEmail:    strings.TrimSpace(input.GuestEmail),
			Adults:        input.Adults,
			Children:      input.Children,
			GuestDetails:  datatypes.JSON(guestJSON),
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}

		for _, st := range input.Stays {
			nights := int(st.CheckOut.Sub(st.CheckIn).Hours() / 24)
			item := models.ReservationRoom{
				ReservationID: reservation.ID,
				RoomTypeID:    st.RoomTypeID,
				CheckIn:       st.CheckIn,
				CheckOut:      st.CheckOut,
				Nights:        nights,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create line item for room type %d: %w", st.RoomTypeID, err)
			}
		}

		created = reservation
		return nil
	})
	if txErr != nil {
		return models.Reservation{}, txErr
	}

	// reload with relations
	if err := s.DB.Preload("Rooms").Preload("Rooms.RoomType").First(&created, created.ID).Error; err != nil {
		return created, err
	}
	if created.Rooms == nil {
		created.Rooms = []models.ReservationRoom{}
	}
	return created, nil
}

func (s *ReservationService) GetAll() ([]models.Reservation, error) {
	var list []models.Reservation
	if err := s.DB.
		Preload("Rooms").
		Preload("Rooms.RoomType").
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reservations: %w", err)
	}
	for i := range list {
		if list[i].Rooms == nil {
			list[i].Rooms = []models.ReservationRoom{}
		}
	}
	return list, nil
}

func (s *ReservationService) GetByID(id uint) (*models.Reservation, error) {
	var r models.Reservation
	if err := s.DB.Preload("Rooms").Preload("Rooms.RoomType").First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to retrieve reservation: %w", err)
	}
	return &r, nil
}

// Cancel transitions a reservation to CANCELLED, immediately releasing its
// units for availability reads. In-house stays must be checked out instead.
func (s *ReservationService) Cancel(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var r models.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		switch r.Status {
		case models.StatusCancelled:
			return ErrAlreadyCancelled
		case models.StatusCheckedIn:
			return ErrCannotCancel
		case models.StatusCompleted:
			return ErrAlreadyCancelled
		}
		return tx.Model(&r).Update("status", models.StatusCancelled).Error
	})
}

// CheckIn transitions PENDING/CONFIRMED to CHECKED_IN.
func (s *ReservationService) CheckIn(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var r models.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if r.Status == models.StatusCheckedIn {
			return ErrAlreadyCheckedIn
		}
		if r.Status != models.StatusPending && r.Status != models.StatusConfirmed {
			return fmt.Errorf("cannot check in reservation in status %s", r.Status)
		}
		now := time.Now().UTC()
		return tx.Model(&r).Updates(map[string]interface{}{
			"status":        models.StatusCheckedIn,
			"checked_in_at": now,
		}).Error
	})
}

// Checkout transitions CHECKED_IN to COMPLETED; the stay stops blocking
// inventory from that moment.
func (s *ReservationService) Checkout(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var r models.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if r.Status != models.StatusCheckedIn {
			return ErrNotCheckedIn
		}
		now := time.Now().UTC()
		return tx.Model(&r).Updates(map[string]interface{}{
			"status":         models.StatusCompleted,
			"checked_out_at": now,
		}).Error
	})
}

// LookupByReference finds a reservation by reference code + guest email, for
// the public guest lookup flow. Matching is case-insensitive on both.
func (s *ReservationService) LookupByReference(referenceCode, email string) (*models.Reservation, error) {
	ref := strings.ToUpper(strings.TrimSpace(referenceCode))
	mail := strings.ToLower(strings.TrimSpace(email))
	if ref == "" || mail == "" {
		return nil, fmt.Errorf("validation: reference code and email are required")
	}

	var r models.Reservation
	err := s.DB.
		Preload("Rooms").
		Preload("Rooms.RoomType").
		Where("UPPER(reference_code) = ? AND LOWER(guest_email) = ?", ref, mail).
		First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to look up reservation: %w", err)
	}
	return &r, nil
}

// CancelByReference is the guest-facing cancellation: same matching as
// LookupByReference, then the usual cancel guards.
func (s *ReservationService) CancelByReference(referenceCode, email string) (*models.Reservation, error) {
	r, err := s.LookupByReference(referenceCode, email)
	if err != nil {
		return nil, err
	}
	if err := s.Cancel(r.ID); err != nil {
		return nil, err
	}
	r.Status = models.StatusCancelled
	return r, nil
}
