package domain

import "github.com/m04kA/FMH-BookingService/pkg/types"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Default operating hours applied when a farmhouse has none configured
const (
	DefaultCheckInFrom types.TimeString = "10:00"
	DefaultCheckOutTo  types.TimeString = "22:00"
)

// Discount schedule for logged-in customers: flat amounts per price bracket,
// lower bound inclusive, upper bound exclusive
const (
	DiscountTier1Min    = 1000.0
	DiscountTier1Amount = 100.0
	DiscountTier2Min    = 3000.0
	DiscountTier2Amount = 200.0
	DiscountTier3Min    = 5000.0
	DiscountTier3Amount = 300.0
	DiscountTier4Min    = 8000.0
	DiscountTier4Amount = 499.0
)

// Business validation constants
const (
	MinNumberOfPersons = 1
	MaxNotesLength     = 500
)
