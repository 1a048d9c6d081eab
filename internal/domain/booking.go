package domain

import (
	"time"

	"github.com/m04kA/FMH-BookingService/pkg/types"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentIncomplete PaymentStatus = "incomplete"
	PaymentPartial    PaymentStatus = "partial"
	PaymentPaid       PaymentStatus = "paid"
	PaymentCancel     PaymentStatus = "cancel"
)

// IsValid returns true for a known payment status
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentIncomplete, PaymentPartial, PaymentPaid, PaymentCancel:
		return true
	}
	return false
}

// BookingStatus represents the time-driven lifecycle state of a booking
type BookingStatus string

const (
	BookingUpcoming BookingStatus = "upcoming"
	BookingCurrent  BookingStatus = "current"
	BookingExpired  BookingStatus = "expired"
)

// IsTerminal returns true once the booking can no longer transition
func (s BookingStatus) IsTerminal() bool {
	return s == BookingExpired
}

// FarmStatus represents the denormalized occupancy flag of the farmhouse
type FarmStatus string

const (
	FarmAvailable   FarmStatus = "available"
	FarmUnavailable FarmStatus = "unavailable"
)

// Booking represents a farmhouse reservation
type Booking struct {
	ID           int64
	InvoiceToken string

	// UserID is nil only before identity resolution; persisted bookings
	// always reference a user (walk-in customers get a guest user record)
	UserID      *int64
	FarmhouseID int64

	// Customer snapshot for walk-in bookings (nil when made by an account)
	CustomerName   *string
	CustomerMobile *string
	CustomerEmail  *string

	BookingDate     time.Time  // check-in instant
	BookingEndDate  *time.Time // check-out instant, derived when absent
	BookingTimeFrom types.TimeString
	BookingTimeTo   types.TimeString
	BookingHours    int

	NumberOfPersons  int
	DurationCategory DurationCategory
	OriginalPrice    float64
	DiscountAmount   float64
	FinalPrice       float64

	IsLoggedIn    bool
	PaymentStatus PaymentStatus
	FarmStatus    FarmStatus
	BookingStatus BookingStatus

	// NextStatusCheckAt is the scheduling hint for the status sweep;
	// nil once the booking is expired
	NextStatusCheckAt *time.Time

	PartialPaidAmount *float64
	RemainingAmount   *float64
	PaymentHistory    PaymentHistory

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled returns true if the booking was cancelled
func (b *Booking) IsCancelled() bool {
	return b.PaymentStatus == PaymentCancel
}

// BlocksAvailability returns true if the booking counts against the farmhouse's availability
func (b *Booking) BlocksAvailability() bool {
	return !b.IsCancelled()
}

// Interval returns the booking's occupancy interval, re-deriving the
// check-out instant from the stored time strings and duration category
// when the persisted end instant is missing
func (b *Booking) Interval() (Interval, error) {
	checkIn := b.BookingDate
	if !b.BookingTimeFrom.IsZero() {
		if derived, err := b.BookingTimeFrom.OnDate(b.BookingDate); err == nil {
			checkIn = derived
		}
	}

	if b.BookingEndDate != nil {
		checkOut := *b.BookingEndDate
		if !b.BookingTimeTo.IsZero() {
			if derived, err := b.BookingTimeTo.OnDate(*b.BookingEndDate); err == nil {
				checkOut = derived
			}
		}
		if !checkOut.Before(checkIn) {
			return Interval{CheckIn: checkIn, CheckOut: checkOut}, nil
		}
	}

	checkOutTo := b.BookingTimeTo
	if checkOutTo.IsZero() {
		checkOutTo = DefaultCheckOutTo
	}
	checkOut, err := DeriveCheckOut(checkIn, b.DurationCategory, checkOutTo)
	if err != nil {
		return Interval{}, err
	}
	return Interval{CheckIn: checkIn, CheckOut: checkOut}, nil
}

// PaidAmounts returns the derived (paid, remaining) pair exposed on reads
func (b *Booking) PaidAmounts() (paid, remaining float64) {
	switch b.PaymentStatus {
	case PaymentPaid:
		return b.FinalPrice, 0
	case PaymentPartial:
		if b.PartialPaidAmount != nil {
			paid = *b.PartialPaidAmount
		}
		if b.RemainingAmount != nil {
			remaining = *b.RemainingAmount
		} else {
			remaining = b.FinalPrice - paid
		}
		return paid, remaining
	default:
		return 0, b.FinalPrice
	}
}

// BookingsFilter filter for listing bookings
type BookingsFilter struct {
	FarmhouseID            *int64
	UserID                 *int64
	PaymentStatus          *PaymentStatus
	PaymentStatusExcluding *PaymentStatus // типично: исключить отменённые
	DateFrom               *time.Time
	DateTo                 *time.Time
	NextCheckDueBefore     *time.Time // бронирования, которым пора пересчитать статус
	Limit                  int
	Offset                 int
}
