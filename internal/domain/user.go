package domain

import "time"

// User represents a customer account (including auto-created guest records)
type User struct {
	ID        int64
	Name      string
	MobileNo  string
	Email     string
	LoginType string // "phone" or "google"

	IsAnyFarmBooked bool
	BookingHistory  []UserBookingEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserBookingEntry is one append-only record in a user's booking history
type UserBookingEntry struct {
	FarmhouseID      int64            `json:"farmhouseId"`
	BookingDate      string           `json:"bookingDate"`
	DurationCategory DurationCategory `json:"durationCategory"`
	Rent             float64          `json:"rent"`
	BookedAt         time.Time        `json:"bookedAt"`
}
