package domain

import "fmt"

// DurationCategory is the closed set of booking length + pricing tier combinations
type DurationCategory string

const (
	Regular12HR DurationCategory = "REGULAR_12HR"
	Regular24HR DurationCategory = "REGULAR_24HR"
	Weekend12HR DurationCategory = "WEEKEND_12HR"
	Weekend24HR DurationCategory = "WEEKEND_24HR"
)

// AllDurationCategories lists every valid category
var AllDurationCategories = []DurationCategory{
	Regular12HR,
	Regular24HR,
	Weekend12HR,
	Weekend24HR,
}

// ParseDurationCategory validates a raw category string
// Unknown categories are rejected rather than silently treated as 12-hour
func ParseDurationCategory(s string) (DurationCategory, error) {
	c := DurationCategory(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: unknown duration category %q", ErrInvalidDurationCategory, s)
	}
	return c, nil
}

// IsValid returns true for a known category
func (c DurationCategory) IsValid() bool {
	switch c {
	case Regular12HR, Regular24HR, Weekend12HR, Weekend24HR:
		return true
	}
	return false
}

// Hours returns the booking length for the category
func (c DurationCategory) Hours() int {
	if c.IsOvernight() {
		return 24
	}
	return 12
}

// IsOvernight returns true for 24-hour categories (checkout on the next day)
func (c DurationCategory) IsOvernight() bool {
	return c == Regular24HR || c == Weekend24HR
}

// IsWeekend returns true for weekend pricing tiers
func (c DurationCategory) IsWeekend() bool {
	return c == Weekend12HR || c == Weekend24HR
}

func (c DurationCategory) String() string {
	return string(c)
}
