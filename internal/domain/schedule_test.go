package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/FMH-BookingService/pkg/types"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestIntervalOverlaps(t *testing.T) {
	base := Interval{
		CheckIn:  date(2026, time.March, 10, 10, 0),
		CheckOut: date(2026, time.March, 10, 22, 0),
	}

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{
			name:  "identical intervals overlap",
			other: base,
			want:  true,
		},
		{
			name: "contained interval overlaps",
			other: Interval{
				CheckIn:  date(2026, time.March, 10, 12, 0),
				CheckOut: date(2026, time.March, 10, 18, 0),
			},
			want: true,
		},
		{
			name: "partial overlap at the tail",
			other: Interval{
				CheckIn:  date(2026, time.March, 10, 20, 0),
				CheckOut: date(2026, time.March, 11, 8, 0),
			},
			want: true,
		},
		{
			name: "back-to-back after checkout does not overlap",
			other: Interval{
				CheckIn:  date(2026, time.March, 10, 22, 0),
				CheckOut: date(2026, time.March, 11, 10, 0),
			},
			want: false,
		},
		{
			name: "back-to-back before check-in does not overlap",
			other: Interval{
				CheckIn:  date(2026, time.March, 10, 0, 0),
				CheckOut: date(2026, time.March, 10, 10, 0),
			},
			want: false,
		},
		{
			name: "fully before",
			other: Interval{
				CheckIn:  date(2026, time.March, 9, 10, 0),
				CheckOut: date(2026, time.March, 9, 22, 0),
			},
			want: false,
		},
		{
			name: "fully after",
			other: Interval{
				CheckIn:  date(2026, time.March, 12, 10, 0),
				CheckOut: date(2026, time.March, 12, 22, 0),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			// симметричность
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestIntervalContains(t *testing.T) {
	iv := Interval{
		CheckIn:  date(2026, time.March, 10, 10, 0),
		CheckOut: date(2026, time.March, 10, 22, 0),
	}

	assert.True(t, iv.Contains(date(2026, time.March, 10, 10, 0)), "check-in is inside")
	assert.True(t, iv.Contains(date(2026, time.March, 10, 15, 30)))
	assert.False(t, iv.Contains(date(2026, time.March, 10, 22, 0)), "check-out is outside (half-open)")
	assert.False(t, iv.Contains(date(2026, time.March, 10, 9, 59)))
}

func TestDeriveCheckIn(t *testing.T) {
	day := date(2026, time.March, 10, 0, 0)
	override := types.TimeString("14:30")
	zero := types.TimeString("")

	tests := []struct {
		name     string
		override *types.TimeString
		want     time.Time
		wantErr  bool
	}{
		{name: "farmhouse default", override: nil, want: date(2026, time.March, 10, 10, 0)},
		{name: "explicit override wins", override: &override, want: date(2026, time.March, 10, 14, 30)},
		{name: "zero override falls back to default", override: &zero, want: date(2026, time.March, 10, 10, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveCheckIn(day, DefaultCheckInFrom, tt.override)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("broken time string", func(t *testing.T) {
		bad := types.TimeString("25:99")
		_, err := DeriveCheckIn(day, DefaultCheckInFrom, &bad)
		assert.ErrorIs(t, err, ErrInvalidTimeString)
	})
}

func TestDeriveCheckOut(t *testing.T) {
	checkIn := date(2026, time.March, 10, 10, 0)

	tests := []struct {
		name       string
		checkIn    time.Time
		category   DurationCategory
		checkOutTo types.TimeString
		want       time.Time
	}{
		{
			name:       "12hr checks out the same day",
			checkIn:    checkIn,
			category:   Regular12HR,
			checkOutTo: "22:00",
			want:       date(2026, time.March, 10, 22, 0),
		},
		{
			name:       "24hr checks out the next day",
			checkIn:    checkIn,
			category:   Regular24HR,
			checkOutTo: "22:00",
			want:       date(2026, time.March, 11, 22, 0),
		},
		{
			name:       "weekend 24hr checks out the next day",
			checkIn:    checkIn,
			category:   Weekend24HR,
			checkOutTo: "09:00",
			want:       date(2026, time.March, 11, 9, 0),
		},
		{
			name:       "12hr rolls over when checkout is not after check-in",
			checkIn:    date(2026, time.March, 10, 18, 0),
			category:   Regular12HR,
			checkOutTo: "06:00",
			want:       date(2026, time.March, 11, 6, 0),
		},
		{
			name:       "12hr rolls over on equal times",
			checkIn:    date(2026, time.March, 10, 18, 0),
			category:   Weekend12HR,
			checkOutTo: "18:00",
			want:       date(2026, time.March, 11, 18, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveCheckOut(tt.checkIn, tt.category, tt.checkOutTo)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.After(tt.checkIn), "checkout must always be after check-in")
		})
	}

	t.Run("unknown category rejected", func(t *testing.T) {
		_, err := DeriveCheckOut(checkIn, DurationCategory("HOLIDAY_48HR"), "22:00")
		assert.ErrorIs(t, err, ErrInvalidDurationCategory)
	})

	t.Run("broken checkout time rejected", func(t *testing.T) {
		_, err := DeriveCheckOut(checkIn, Regular12HR, "not-a-time")
		assert.ErrorIs(t, err, ErrInvalidTimeString)
	})
}

func TestComputeDiscount(t *testing.T) {
	tests := []struct {
		name       string
		price      float64
		isLoggedIn bool
		want       float64
	}{
		{name: "below first tier", price: 999, isLoggedIn: true, want: 0},
		{name: "first tier lower bound", price: 1000, isLoggedIn: true, want: 100},
		{name: "first tier upper edge", price: 2999, isLoggedIn: true, want: 100},
		{name: "second tier lower bound", price: 3000, isLoggedIn: true, want: 200},
		{name: "second tier upper edge", price: 4999, isLoggedIn: true, want: 200},
		{name: "third tier lower bound", price: 5000, isLoggedIn: true, want: 300},
		{name: "third tier upper edge", price: 7999, isLoggedIn: true, want: 300},
		{name: "fourth tier lower bound", price: 8000, isLoggedIn: true, want: 499},
		{name: "fourth tier is unbounded", price: 150000, isLoggedIn: true, want: 499},
		{name: "guest gets no discount regardless of price", price: 10000, isLoggedIn: false, want: 0},
		{name: "zero price", price: 0, isLoggedIn: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeDiscount(tt.price, tt.isLoggedIn))
		})
	}
}
