package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/FMH-BookingService/pkg/types"
)

// Interval is the half-open occupancy interval [CheckIn, CheckOut)
// of a booking. Touching endpoints do not overlap, which allows
// back-to-back same-day bookings.
type Interval struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Overlaps reports whether two half-open intervals intersect
func (i Interval) Overlaps(other Interval) bool {
	return i.CheckIn.Before(other.CheckOut) && i.CheckOut.After(other.CheckIn)
}

// Contains reports whether the instant falls inside the interval
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.CheckIn) && t.Before(i.CheckOut)
}

// DeriveCheckIn combines a calendar date with the farmhouse's check-in
// time-of-day. An explicit override wins over the farmhouse default.
func DeriveCheckIn(date time.Time, defaultFrom types.TimeString, override *types.TimeString) (time.Time, error) {
	from := defaultFrom
	if override != nil && !override.IsZero() {
		from = *override
	}
	checkIn, err := from.OnDate(date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: check-in time %q", ErrInvalidTimeString, from)
	}
	return checkIn, nil
}

// DeriveCheckOut computes the check-out instant for a booking.
//
// 24-hour categories check out the next calendar day at checkOutTo.
// 12-hour categories check out the same calendar day at checkOutTo;
// if checkOutTo is not later than the check-in time-of-day, checkout
// rolls over to the next day (never earlier than check-in).
func DeriveCheckOut(checkIn time.Time, category DurationCategory, checkOutTo types.TimeString) (time.Time, error) {
	if !category.IsValid() {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDurationCategory, category)
	}

	checkOut, err := checkOutTo.OnDate(checkIn)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: check-out time %q", ErrInvalidTimeString, checkOutTo)
	}

	if category.IsOvernight() {
		return checkOut.AddDate(0, 0, 1), nil
	}

	if !checkOut.After(checkIn) {
		checkOut = checkOut.AddDate(0, 0, 1)
	}
	return checkOut, nil
}

// ComputeDiscount returns the flat discount for a price.
// Discounts apply only to bookings made by authenticated accounts.
func ComputeDiscount(price float64, isLoggedIn bool) float64 {
	if !isLoggedIn {
		return 0
	}

	switch {
	case price >= DiscountTier4Min:
		return DiscountTier4Amount
	case price >= DiscountTier3Min:
		return DiscountTier3Amount
	case price >= DiscountTier2Min:
		return DiscountTier2Amount
	case price >= DiscountTier1Min:
		return DiscountTier1Amount
	default:
		return 0
	}
}
