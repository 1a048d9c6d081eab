package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/FMH-BookingService/pkg/types"
)

// Farmhouse represents a bookable property
type Farmhouse struct {
	ID         int64
	Name       string
	Slug       string
	FarmNo     string
	MaxPersons int
	Bedrooms   int

	// Operating-hour defaults used when a booking does not override them
	CheckInFrom types.TimeString
	CheckOutTo  types.TimeString

	Status        bool // false = inactive, cannot be booked
	IsMostVisited bool

	PriceOptions []PriceOption

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PriceOption is a per-farmhouse price for one duration category
type PriceOption struct {
	ID          int64
	FarmhouseID int64
	Category    DurationCategory
	Price       float64
	MaxPeople   int
}

// PriceOptionFor returns the price option matching the category, if any
func (f *Farmhouse) PriceOptionFor(category DurationCategory) *PriceOption {
	for i := range f.PriceOptions {
		if f.PriceOptions[i].Category == category {
			return &f.PriceOptions[i]
		}
	}
	return nil
}

// ResolvePrice looks up the price for a category and validates capacity
func (f *Farmhouse) ResolvePrice(category DurationCategory, numberOfPersons int) (float64, error) {
	option := f.PriceOptionFor(category)
	if option == nil {
		return 0, fmt.Errorf("%w: farmhouse id=%d has no price option for category %s",
			ErrPriceNotFound, f.ID, category)
	}
	if numberOfPersons > option.MaxPeople {
		return 0, fmt.Errorf("%w: maximum %d persons allowed for category %s",
			ErrCapacityExceeded, option.MaxPeople, category)
	}
	return option.Price, nil
}

// CheckInDefault returns the configured check-in time-of-day or the system default
func (f *Farmhouse) CheckInDefault() types.TimeString {
	if f.CheckInFrom.IsZero() {
		return DefaultCheckInFrom
	}
	return f.CheckInFrom
}

// CheckOutDefault returns the configured check-out time-of-day or the system default
func (f *Farmhouse) CheckOutDefault() types.TimeString {
	if f.CheckOutTo.IsZero() {
		return DefaultCheckOutTo
	}
	return f.CheckOutTo
}
