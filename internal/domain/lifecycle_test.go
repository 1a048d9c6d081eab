package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/FMH-BookingService/pkg/ptr"
)

func TestEvaluateLifecycle(t *testing.T) {
	checkIn := date(2026, time.March, 10, 10, 0)
	checkOut := date(2026, time.March, 10, 22, 0)

	tests := []struct {
		name string
		now  time.Time
		want BookingStatus
	}{
		{name: "before check-in", now: date(2026, time.March, 10, 9, 59), want: BookingUpcoming},
		{name: "exactly at check-in", now: checkIn, want: BookingCurrent},
		{name: "inside the stay", now: date(2026, time.March, 10, 15, 0), want: BookingCurrent},
		{name: "exactly at check-out", now: checkOut, want: BookingCurrent},
		{name: "after check-out", now: date(2026, time.March, 10, 22, 1), want: BookingExpired},
		{name: "days later", now: date(2026, time.April, 1, 0, 0), want: BookingExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateLifecycle(checkIn, checkOut, tt.now)
			assert.Equal(t, tt.want, got)
			// повторный вызов в тот же момент времени даёт тот же статус
			assert.Equal(t, got, EvaluateLifecycle(checkIn, checkOut, tt.now))
		})
	}
}

func TestNextStatusCheck(t *testing.T) {
	checkIn := date(2026, time.March, 10, 10, 0)
	checkOut := date(2026, time.March, 10, 22, 0)

	next := NextStatusCheck(BookingUpcoming, checkIn, checkOut)
	require.NotNil(t, next)
	assert.Equal(t, checkIn, *next, "upcoming re-checks at check-in")

	next = NextStatusCheck(BookingCurrent, checkIn, checkOut)
	require.NotNil(t, next)
	assert.Equal(t, checkOut, *next, "current re-checks at check-out")

	assert.Nil(t, NextStatusCheck(BookingExpired, checkIn, checkOut), "expired never re-checks")
}

func upcomingBooking() *Booking {
	return &Booking{
		ID:               1,
		FarmhouseID:      7,
		BookingDate:      date(2026, time.March, 10, 10, 0),
		BookingEndDate:   ptr.Ptr(date(2026, time.March, 10, 22, 0)),
		BookingTimeFrom:  "10:00",
		BookingTimeTo:    "22:00",
		DurationCategory: Regular12HR,
		PaymentStatus:    PaymentIncomplete,
		FarmStatus:       FarmAvailable,
		BookingStatus:    BookingUpcoming,
	}
}

func TestApplyLifecycle(t *testing.T) {
	t.Run("upcoming to current flips the farm to unavailable", func(t *testing.T) {
		b := upcomingBooking()

		changed, err := ApplyLifecycle(b, date(2026, time.March, 10, 12, 0))
		require.NoError(t, err)

		assert.True(t, changed)
		assert.Equal(t, BookingCurrent, b.BookingStatus)
		assert.Equal(t, FarmUnavailable, b.FarmStatus)
		require.NotNil(t, b.NextStatusCheckAt)
		assert.Equal(t, date(2026, time.March, 10, 22, 0), *b.NextStatusCheckAt)
	})

	t.Run("current to expired frees the farm", func(t *testing.T) {
		b := upcomingBooking()
		b.BookingStatus = BookingCurrent
		b.FarmStatus = FarmUnavailable
		b.NextStatusCheckAt = ptr.Ptr(date(2026, time.March, 10, 22, 0))

		changed, err := ApplyLifecycle(b, date(2026, time.March, 11, 0, 0))
		require.NoError(t, err)

		assert.True(t, changed)
		assert.Equal(t, BookingExpired, b.BookingStatus)
		assert.Equal(t, FarmAvailable, b.FarmStatus)
		assert.Nil(t, b.NextStatusCheckAt)
	})

	t.Run("upcoming straight to expired", func(t *testing.T) {
		b := upcomingBooking()

		changed, err := ApplyLifecycle(b, date(2026, time.April, 1, 0, 0))
		require.NoError(t, err)

		assert.True(t, changed)
		assert.Equal(t, BookingExpired, b.BookingStatus)
		// ферма не была занята этим бронированием, статус не трогаем
		assert.Equal(t, FarmAvailable, b.FarmStatus)
	})

	t.Run("idempotent at the same instant", func(t *testing.T) {
		b := upcomingBooking()
		now := date(2026, time.March, 10, 12, 0)

		changed, err := ApplyLifecycle(b, now)
		require.NoError(t, err)
		assert.True(t, changed)

		snapshot := *b
		changed, err = ApplyLifecycle(b, now)
		require.NoError(t, err)
		assert.False(t, changed, "second pass must be a no-op")
		assert.Equal(t, snapshot.BookingStatus, b.BookingStatus)
		assert.Equal(t, snapshot.FarmStatus, b.FarmStatus)
	})

	t.Run("no change while still upcoming", func(t *testing.T) {
		b := upcomingBooking()
		b.NextStatusCheckAt = ptr.Ptr(date(2026, time.March, 10, 10, 0))

		changed, err := ApplyLifecycle(b, date(2026, time.March, 9, 12, 0))
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestStatusCheckDue(t *testing.T) {
	now := date(2026, time.March, 10, 12, 0)

	tests := []struct {
		name    string
		mutate  func(*Booking)
		want    bool
	}{
		{
			name:   "scheduled instant passed",
			mutate: func(b *Booking) { b.NextStatusCheckAt = ptr.Ptr(date(2026, time.March, 10, 10, 0)) },
			want:   true,
		},
		{
			name:   "scheduled instant is exactly now",
			mutate: func(b *Booking) { b.NextStatusCheckAt = ptr.Ptr(now) },
			want:   true,
		},
		{
			name:   "scheduled in the future",
			mutate: func(b *Booking) { b.NextStatusCheckAt = ptr.Ptr(date(2026, time.March, 10, 14, 0)) },
			want:   false,
		},
		{
			name:   "legacy row without a schedule is always due",
			mutate: func(b *Booking) { b.NextStatusCheckAt = nil },
			want:   true,
		},
		{
			name: "expired row is never due",
			mutate: func(b *Booking) {
				b.BookingStatus = BookingExpired
				b.NextStatusCheckAt = nil
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := upcomingBooking()
			tt.mutate(b)
			assert.Equal(t, tt.want, b.StatusCheckDue(now))
		})
	}
}

func TestBookingInterval(t *testing.T) {
	t.Run("persisted end date wins", func(t *testing.T) {
		b := upcomingBooking()

		iv, err := b.Interval()
		require.NoError(t, err)
		assert.Equal(t, date(2026, time.March, 10, 10, 0), iv.CheckIn)
		assert.Equal(t, date(2026, time.March, 10, 22, 0), iv.CheckOut)
	})

	t.Run("missing end date re-derives from the category", func(t *testing.T) {
		b := upcomingBooking()
		b.BookingEndDate = nil
		b.DurationCategory = Regular24HR

		iv, err := b.Interval()
		require.NoError(t, err)
		assert.Equal(t, date(2026, time.March, 11, 22, 0), iv.CheckOut)
	})

	t.Run("inverted persisted dates fall back to derivation", func(t *testing.T) {
		b := upcomingBooking()
		b.BookingEndDate = ptr.Ptr(date(2026, time.March, 9, 22, 0))

		iv, err := b.Interval()
		require.NoError(t, err)
		assert.True(t, iv.CheckOut.After(iv.CheckIn))
	})
}

func TestPaidAmounts(t *testing.T) {
	b := upcomingBooking()
	b.FinalPrice = 4800

	paid, remaining := b.PaidAmounts()
	assert.Equal(t, 0.0, paid)
	assert.Equal(t, 4800.0, remaining)

	b.PaymentStatus = PaymentPartial
	b.PartialPaidAmount = ptr.Ptr(1800.0)
	b.RemainingAmount = ptr.Ptr(3000.0)
	paid, remaining = b.PaidAmounts()
	assert.Equal(t, 1800.0, paid)
	assert.Equal(t, 3000.0, remaining)

	b.RemainingAmount = nil
	paid, remaining = b.PaidAmounts()
	assert.Equal(t, 1800.0, paid)
	assert.Equal(t, 3000.0, remaining, "remaining is derived when not stored")

	b.PaymentStatus = PaymentPaid
	paid, remaining = b.PaidAmounts()
	assert.Equal(t, 4800.0, paid)
	assert.Equal(t, 0.0, remaining)
}
