package services

import (
	"errors"
	"testing"
	"time"

	"staydesk-backend/models"
	"staydesk-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := utils.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

type fakeStay struct {
	checkIn  time.Time
	checkOut time.Time
	status   string
}

type fakeInventory struct {
	counts     map[uint]int64
	byProperty map[uint][]uint
	err        error
	calls      int
}

func (f *fakeInventory) CountActiveUnits(roomTypeID uint) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[roomTypeID], nil
}

func (f *fakeInventory) RoomTypeExists(roomTypeID uint) (bool, error) {
	_, ok := f.counts[roomTypeID]
	return ok, f.err
}

func (f *fakeInventory) RoomTypeIDs(propertyID uint) ([]uint, error) {
	return f.byProperty[propertyID], f.err
}

type fakeReservations struct {
	stays map[uint][]fakeStay
	err   error
	calls int
}

func (f *fakeReservations) CountOverlapping(roomTypeID uint, checkIn, checkOut time.Time) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, st := range f.stays[roomTypeID] {
		if models.IsBlockingStatus(st.status) && utils.Overlaps(st.checkIn, st.checkOut, checkIn, checkOut) {
			n++
		}
	}
	return n, nil
}

func (f *fakeReservations) ListOverlapping(roomTypeID uint, from, to time.Time) ([]models.ReservationRoom, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var items []models.ReservationRoom
	for _, st := range f.stays[roomTypeID] {
		if models.IsBlockingStatus(st.status) && utils.Overlaps(st.checkIn, st.checkOut, from, to) {
			items = append(items, models.ReservationRoom{
				RoomTypeID: roomTypeID,
				CheckIn:    st.checkIn,
				CheckOut:   st.checkOut,
			})
		}
	}
	return items, nil
}

func newEngine(inv *fakeInventory, res *fakeReservations) *AvailabilityService {
	return NewAvailabilityService(inv, res, 2)
}

func TestEvaluate(t *testing.T) {
	t.Run("five units one confirmed stay", func(t *testing.T) {
		inv := &fakeInventory{counts: map[uint]int64{7: 5}}
		res := &fakeReservations{stays: map[uint][]fakeStay{
			7: {{date("2026-01-06"), date("2026-01-09"), models.StatusConfirmed}},
		}}

		got, err := newEngine(inv, res).Evaluate(7, date("2026-01-06"), date("2026-01-09"))
		require.NoError(t, err)
		assert.Equal(t, models.UnitAvailabilityResult{
			RoomTypeID:          7,
			TotalUnits:          5,
			BookedUnits:         1,
			AvailableUnits:      4,
			Available:           true,
			LimitedAvailability: false,
		}, got)
	})

	t.Run("fully booked", func(t *testing.T) {
		inv := &fakeInventory{counts: map[uint]int64{7: 2}}
		res := &fakeReservations{stays: map[uint][]fakeStay{
			7: {
				{date("2026-01-06"), date("2026-01-09"), models.StatusConfirmed},
				{date("2026-01-06"), date("2026-01-09"), models.StatusConfirmed},
			},
		}}

		got, err := newEngine(inv, res).Evaluate(7, date("2026-01-06"), date("2026-01-09"))
		require.NoError(t, err)
		assert.Equal(t, 0, got.AvailableUnits)
		assert.False(t, got.Available)
		assert.False(t, got.LimitedAvailability)
	})

	t.Run("limited below threshold", func(t *testing.T) {
		inv := &fakeInventory{counts: map[uint]int64{7: 4}}
		res := &fakeReservations{stays: map[uint][]fakeStay{
			7: {
				{date("2026-01-06"), date("2026-01-09"), models.StatusConfirmed},
				{date("2026-01-06"), date("2026-01-09"), models.StatusPending},
			},
		}}

		got, err := newEngine(inv, res).Evaluate(7, date("2026-01-06"), date("2026-01-09"))
		require.NoError(t, err)
		assert.Equal(t, 2, got.AvailableUnits)
		assert.True(t, got.Available)
		assert.True(t, got.LimitedAvailability)
	})

	t.Run("cancelled and completed stays never block", func(t *testing.T) {
		inv := &fakeInventory{counts: map[uint]int64{7: 3}}
		res := &fakeReservations{stays: map[uint][]fakeStay{
			7: {
				{date("2026-01-06"), date("2026-01-09"), models.StatusCancelled},
				{date("2026-01-06"), date("2026-01-09"), models.StatusCompleted},
				{date("2026-01-06"), date("2026-01-09"), models.StatusCheckedIn},
			},
		}}

		got, err := newEngine(inv, res).Evaluate(7, date("2026-01-06"), date("2026-01-09"))
		require.NoError(t, err)
		assert.Equal(t, 1, got.BookedUnits) // only the CHECKED_IN stay
		assert.Equal(t, 2, got.AvailableUnits)
	})

	t.Run("unknown room type skips overlap query", func(t *testing.T) {
		inv := &fakeInventory{counts: map[uint]int64{}}
		res := &fakeReservations{stays: map[uint][]fakeStay{}}

		got, err := newEngine(inv, res).Evaluate(99, date("2026-01-06"), date("2026-01-09"))
		require.NoError(t, err)
		assert.Equal(t, models.UnitAvailabilityResult{RoomTypeID: 99}, got)
		assert.Zero(t, res.calls, "overlap resolver must not run for a unitless room type")
	})

	t.Run("inverted range is a validation error", func(t *testing.T) {
		inv := &fakeInventory{counts: map[uint]int64{7: 5}}
		res := &fakeReservations{}

		_, err := newEngine(inv, res).Evaluate(7, date("2026-01-09"), date("2026-01-06"))
		assert.Error(t, err)

		_, err = newEngine(inv, res).Evaluate(7, date("2026-01-06"), date("2026-01-06"))
		assert.Error(t, err)
	})

	t.Run("infrastructure error propagates", func(t *testing.T) {
		inv := &fakeInventory{counts: map[uint]int64{7: 5}}
		res := &fakeReservations{err: errors.New("connection refused")}

		_, err := newEngine(inv, res).Evaluate(7, date("2026-01-06"), date("2026-01-09"))
		assert.Error(t, err)
	})

	t.Run("time of day never shifts the window", func(t *testing.T) {
		inv := &fakeInventory{counts: map[uint]int64{7: 1}}
		res := &fakeReservations{stays: map[uint][]fakeStay{
			7: {{date("2026-01-06"), date("2026-01-09"), models.StatusConfirmed}},
		}}

		late := time.Date(2026, 1, 8, 23, 59, 59, 0, time.UTC)
		morning := time.Date(2026, 1, 10, 6, 0, 0, 0, time.UTC)
		got, err := newEngine(inv, res).Evaluate(7, late, morning)
		require.NoError(t, err)
		assert.Equal(t, 1, got.BookedUnits)
	})
}

func TestEvaluateMany(t *testing.T) {
	inv := &fakeInventory{counts: map[uint]int64{1: 3, 2: 1}}
	res := &fakeReservations{stays: map[uint][]fakeStay{
		2: {{date("2026-01-06"), date("2026-01-09"), models.StatusConfirmed}},
	}}
	engine := newEngine(inv, res)

	checks := []AvailabilityCheck{
		{RoomTypeID: 1, CheckIn: date("2026-01-06"), CheckOut: date("2026-01-09")},
		{RoomTypeID: 99, CheckIn: date("2026-01-06"), CheckOut: date("2026-01-09")}, // unknown
		{RoomTypeID: 2, CheckIn: date("2026-01-06"), CheckOut: date("2026-01-09")},
		{RoomTypeID: 1, CheckIn: date("2026-01-06"), CheckOut: date("2026-01-09")}, // duplicate
	}

	results, err := engine.EvaluateMany(checks)
	require.NoError(t, err)
	require.Len(t, results, len(checks))

	assert.Equal(t, uint(1), results[0].RoomTypeID)
	assert.Equal(t, 3, results[0].AvailableUnits)

	assert.Equal(t, uint(99), results[1].RoomTypeID)
	assert.False(t, results[1].Available)
	assert.Zero(t, results[1].TotalUnits)

	assert.Equal(t, uint(2), results[2].RoomTypeID)
	assert.False(t, results[2].Available)

	assert.Equal(t, results[0], results[3])

	t.Run("empty input", func(t *testing.T) {
		results, err := engine.EvaluateMany(nil)
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.NotNil(t, results)
	})

	t.Run("independent checks do not interact", func(t *testing.T) {
		// two checks for the same nearly-full room type both see persisted
		// state, not each other's hypothetical booking
		results, err := engine.EvaluateMany([]AvailabilityCheck{
			{RoomTypeID: 1, CheckIn: date("2026-03-01"), CheckOut: date("2026-03-05")},
			{RoomTypeID: 1, CheckIn: date("2026-03-01"), CheckOut: date("2026-03-05")},
		})
		require.NoError(t, err)
		assert.Equal(t, results[0], results[1])
	})
}

func TestExpandMonth(t *testing.T) {
	t.Run("one stay in the middle of the month", func(t *testing.T) {
		inv := &fakeInventory{counts: map[uint]int64{7: 2}}
		res := &fakeReservations{stays: map[uint][]fakeStay{
			7: {{date("2026-01-06"), date("2026-01-09"), models.StatusConfirmed}},
		}}

		days, err := newEngine(inv, res).ExpandMonth(7, 2026, time.January)
		require.NoError(t, err)
		require.Len(t, days, 31)

		// ascending, no gaps
		for i, day := range days {
			assert.Equal(t, utils.FormatDate(date("2026-01-01").AddDate(0, 0, i)), day.Date)
		}

		byDate := map[string]models.DateAvailabilityInfo{}
		for _, day := range days {
			byDate[day.Date] = day
		}

		// nights Jan 6,7,8 are occupied; Jan 9 (checkout morning) is free
		assert.Equal(t, 1, byDate["2026-01-06"].AvailableUnits)
		assert.Equal(t, 1, byDate["2026-01-07"].AvailableUnits)
		assert.Equal(t, 1, byDate["2026-01-08"].AvailableUnits)
		assert.Equal(t, 2, byDate["2026-01-09"].AvailableUnits)
		assert.Equal(t, 2, byDate["2026-01-05"].AvailableUnits)

		assert.Equal(t, models.AvailabilityLimited, byDate["2026-01-06"].Status)
		assert.Equal(t, models.AvailabilityLimited, byDate["2026-01-09"].Status)

		// exactly one inventory read + one batched line-item fetch
		assert.Equal(t, 1, inv.calls)
		assert.Equal(t, 1, res.calls)
	})

	t.Run("month lengths", func(t *testing.T) {
		inv := &fakeInventory{counts: map[uint]int64{7: 1}}
		res := &fakeReservations{}
		engine := newEngine(inv, res)

		cases := []struct {
			year  int
			month time.Month
			days  int
		}{
			{2026, time.February, 28},
			{2024, time.February, 29},
			{2026, time.April, 30},
			{2026, time.July, 31},
		}
		for _, tc := range cases {
			days, err := engine.ExpandMonth(7, tc.year, tc.month)
			require.NoError(t, err)
			assert.Len(t, days, tc.days)
		}
	})

	t.Run("zero-length block occupies exactly its day", func(t *testing.T) {
		inv := &fakeInventory{counts: map[uint]int64{7: 1}}
		res := &fakeReservations{stays: map[uint][]fakeStay{
			7: {{date("2026-01-06"), date("2026-01-06"), models.StatusConfirmed}},
		}}

		days, err := newEngine(inv, res).ExpandMonth(7, 2026, time.January)
		require.NoError(t, err)

		for _, day := range days {
			if day.Date == "2026-01-06" {
				assert.Equal(t, models.AvailabilityUnavailable, day.Status)
				assert.Zero(t, day.AvailableUnits)
			} else {
				assert.Equal(t, 1, day.AvailableUnits, "day %s", day.Date)
			}
		}
	})

	t.Run("unknown room type yields full month of zeros", func(t *testing.T) {
		inv := &fakeInventory{counts: map[uint]int64{}}
		res := &fakeReservations{}

		days, err := newEngine(inv, res).ExpandMonth(42, 2026, time.June)
		require.NoError(t, err)
		require.Len(t, days, 30)
		for _, day := range days {
			assert.Zero(t, day.TotalUnits)
			assert.Equal(t, models.AvailabilityUnavailable, day.Status)
		}
		assert.Zero(t, res.calls)
	})

	t.Run("stay spanning month boundary still occupies interior days", func(t *testing.T) {
		inv := &fakeInventory{counts: map[uint]int64{7: 1}}
		res := &fakeReservations{stays: map[uint][]fakeStay{
			7: {{date("2025-12-28"), date("2026-01-03"), models.StatusCheckedIn}},
		}}

		days, err := newEngine(inv, res).ExpandMonth(7, 2026, time.January)
		require.NoError(t, err)

		assert.Equal(t, models.AvailabilityUnavailable, days[0].Status) // Jan 1
		assert.Equal(t, models.AvailabilityUnavailable, days[1].Status) // Jan 2
		// Jan 3 is the checkout morning: free again (1 of 1 unit, below the
		// low-stock threshold, so it reads as limited rather than available)
		assert.Equal(t, models.AvailabilityLimited, days[2].Status)
		assert.Equal(t, 1, days[2].AvailableUnits)
	})
}

func TestEvaluateProperty(t *testing.T) {
	inv := &fakeInventory{
		counts:     map[uint]int64{1: 2, 2: 0, 3: 4},
		byProperty: map[uint][]uint{10: {1, 2, 3}},
	}
	res := &fakeReservations{}

	results, err := newEngine(inv, res).EvaluateProperty(10, date("2026-01-06"), date("2026-01-09"))
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, uint(1), results[0].RoomTypeID)
	assert.Equal(t, uint(2), results[1].RoomTypeID)
	assert.False(t, results[1].Available)
	assert.Equal(t, uint(3), results[2].RoomTypeID)
	assert.Equal(t, 4, results[2].AvailableUnits)
}
