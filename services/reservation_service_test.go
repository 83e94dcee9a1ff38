package services

import (
	"testing"

	"staydesk-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationService_Create_Validation(t *testing.T) {
	gdb, _ := newMockDB(t)
	inv := &fakeInventory{counts: map[uint]int64{7: 2}}
	res := &fakeReservations{stays: map[uint][]fakeStay{
		7: {{date("2026-01-06"), date("2026-01-09"), models.StatusConfirmed}},
	}}
	svc := NewReservationService(gdb, newEngine(inv, res))

	t.Run("no stays", func(t *testing.T) {
		_, err := svc.Create(CreateReservationInput{GuestName: "Ann Guest"})
		assert.ErrorContains(t, err, "no stays")
	})

	t.Run("missing guest name", func(t *testing.T) {
		_, err := svc.Create(CreateReservationInput{
			Stays: []StayRequest{{RoomTypeID: 7, CheckIn: date("2026-01-06"), CheckOut: date("2026-01-09")}},
		})
		assert.ErrorContains(t, err, "guest name")
	})

	t.Run("inverted stay window", func(t *testing.T) {
		_, err := svc.Create(CreateReservationInput{
			GuestName: "Ann Guest",
			Stays:     []StayRequest{{RoomTypeID: 7, CheckIn: date("2026-01-09"), CheckOut: date("2026-01-06")}},
		})
		assert.ErrorContains(t, err, "check-in must be before check-out")
	})

	t.Run("not enough units for grouped window", func(t *testing.T) {
		// 2 total, 1 already booked: asking for 2 more in the same window
		// must fail before any write happens
		_, err := svc.Create(CreateReservationInput{
			GuestName: "Ann Guest",
			Stays: []StayRequest{
				{RoomTypeID: 7, CheckIn: date("2026-01-06"), CheckOut: date("2026-01-09")},
				{RoomTypeID: 7, CheckIn: date("2026-01-06"), CheckOut: date("2026-01-09")},
			},
		})
		assert.ErrorIs(t, err, ErrNotEnoughUnits)
	})
}

func reservationRow(id uint, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "reference_code", "status", "guest_name", "guest_email"}).
		AddRow(id, "RSV-TESTCODE", status, "Ann Guest", "ann@example.com")
}

func TestReservationService_Cancel(t *testing.T) {
	t.Run("cancels a confirmed reservation", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		svc := NewReservationService(gdb, nil)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `reservations`.*FOR UPDATE").
			WillReturnRows(reservationRow(1, models.StatusConfirmed))
		mock.ExpectExec("UPDATE `reservations` SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, svc.Cancel(1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("refuses to cancel an in-house stay", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		svc := NewReservationService(gdb, nil)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `reservations`.*FOR UPDATE").
			WillReturnRows(reservationRow(1, models.StatusCheckedIn))
		mock.ExpectRollback()

		assert.ErrorIs(t, svc.Cancel(1), ErrCannotCancel)
	})

	t.Run("already cancelled", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		svc := NewReservationService(gdb, nil)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `reservations`.*FOR UPDATE").
			WillReturnRows(reservationRow(1, models.StatusCancelled))
		mock.ExpectRollback()

		assert.ErrorIs(t, svc.Cancel(1), ErrAlreadyCancelled)
	})

	t.Run("missing reservation", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		svc := NewReservationService(gdb, nil)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `reservations`.*FOR UPDATE").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		assert.ErrorIs(t, svc.Cancel(42), ErrReservationNotFound)
	})
}

func TestReservationService_Checkout(t *testing.T) {
	t.Run("completes an in-house stay", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		svc := NewReservationService(gdb, nil)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `reservations`.*FOR UPDATE").
			WillReturnRows(reservationRow(1, models.StatusCheckedIn))
		mock.ExpectExec("UPDATE `reservations` SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, svc.Checkout(1))
	})

	t.Run("rejects checkout before check-in", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		svc := NewReservationService(gdb, nil)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `reservations`.*FOR UPDATE").
			WillReturnRows(reservationRow(1, models.StatusConfirmed))
		mock.ExpectRollback()

		assert.ErrorIs(t, svc.Checkout(1), ErrNotCheckedIn)
	})
}

func TestReservationService_CheckIn(t *testing.T) {
	t.Run("checks in a confirmed reservation", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		svc := NewReservationService(gdb, nil)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `reservations`.*FOR UPDATE").
			WillReturnRows(reservationRow(1, models.StatusConfirmed))
		mock.ExpectExec("UPDATE `reservations` SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, svc.CheckIn(1))
	})

	t.Run("double check-in is rejected", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		svc := NewReservationService(gdb, nil)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `reservations`.*FOR UPDATE").
			WillReturnRows(reservationRow(1, models.StatusCheckedIn))
		mock.ExpectRollback()

		assert.ErrorIs(t, svc.CheckIn(1), ErrAlreadyCheckedIn)
	})
}
