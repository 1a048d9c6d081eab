package domain

import "time"

// EvaluateLifecycle derives the lifecycle status of a booking from its
// occupancy interval and the current wall-clock time:
//
//	now < checkIn            -> upcoming
//	checkIn <= now <= checkOut -> current
//	now > checkOut           -> expired
//
// The function is pure and idempotent: re-evaluating at the same instant
// always yields the same status.
func EvaluateLifecycle(checkIn, checkOut, now time.Time) BookingStatus {
	switch {
	case now.Before(checkIn):
		return BookingUpcoming
	case now.After(checkOut):
		return BookingExpired
	default:
		return BookingCurrent
	}
}

// NextStatusCheck returns the instant at which the status must be
// re-evaluated, or nil once the booking is terminal
func NextStatusCheck(status BookingStatus, checkIn, checkOut time.Time) *time.Time {
	switch status {
	case BookingUpcoming:
		t := checkIn
		return &t
	case BookingCurrent:
		t := checkOut
		return &t
	default:
		return nil
	}
}

// ApplyLifecycle re-derives the booking's lifecycle fields against now
// and mutates the booking in place. It returns true when any of
// bookingStatus, farmStatus or nextStatusCheckAt changed and the row
// needs persisting.
//
// Both the lazy per-read check and the scheduled sweep go through this
// single function; the call sites only decide when to invoke it and
// whether to persist the result.
func ApplyLifecycle(b *Booking, now time.Time) (bool, error) {
	interval, err := b.Interval()
	if err != nil {
		return false, err
	}

	newStatus := EvaluateLifecycle(interval.CheckIn, interval.CheckOut, now)

	newFarmStatus := b.FarmStatus
	if newStatus == BookingCurrent && b.FarmStatus == FarmAvailable {
		newFarmStatus = FarmUnavailable
	}
	if newStatus == BookingExpired && b.FarmStatus == FarmUnavailable {
		newFarmStatus = FarmAvailable
	}

	newNextCheck := NextStatusCheck(newStatus, interval.CheckIn, interval.CheckOut)

	changed := b.BookingStatus != newStatus ||
		b.FarmStatus != newFarmStatus ||
		!equalTimePtr(b.NextStatusCheckAt, newNextCheck)

	b.BookingStatus = newStatus
	b.FarmStatus = newFarmStatus
	b.NextStatusCheckAt = newNextCheck

	return changed, nil
}

// StatusCheckDue reports whether the lazy lifecycle check should run for
// the booking: the scheduled instant has passed, or the row predates the
// scheduling column and is still non-terminal
func (b *Booking) StatusCheckDue(now time.Time) bool {
	if b.BookingStatus.IsTerminal() {
		return false
	}
	if b.NextStatusCheckAt == nil {
		return true
	}
	return !now.Before(*b.NextStatusCheckAt)
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
