package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PaymentEvent is one append-only record in a booking's payment history
type PaymentEvent struct {
	FromStatus PaymentStatus  `json:"fromStatus,omitempty"`
	ToStatus   PaymentStatus  `json:"toStatus"`
	Amount     *float64       `json:"amount,omitempty"`
	Remaining  *float64       `json:"remaining,omitempty"`
	Notes      *string        `json:"notes,omitempty"`
	At         time.Time      `json:"at"`
}

// PaymentHistory is the booking's payment ledger, stored as a JSONB column.
// Entries are only ever appended, never mutated.
type PaymentHistory []PaymentEvent

// Append returns the history with a new event added
func (h PaymentHistory) Append(event PaymentEvent) PaymentHistory {
	return append(h, event)
}

// Value реализует driver.Valuer для записи JSONB
func (h PaymentHistory) Value() (driver.Value, error) {
	if h == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h)
}

// Scan реализует sql.Scanner для чтения JSONB
func (h *PaymentHistory) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*h = nil
		return nil
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return fmt.Errorf("cannot scan %T into PaymentHistory", src)
	}
}

// ValidatePartialPayment checks the partial-payment invariant:
// 0 < paid < finalPrice. Returns the derived remaining amount when the
// caller did not supply one.
func ValidatePartialPayment(finalPrice, paidAmount float64, remaining *float64) (float64, error) {
	if paidAmount <= 0 {
		return 0, fmt.Errorf("%w: paid amount must be positive", ErrInvalidPartialPayment)
	}
	if paidAmount >= finalPrice {
		return 0, fmt.Errorf("%w: paid amount %.2f must be less than final price %.2f",
			ErrInvalidPartialPayment, paidAmount, finalPrice)
	}
	if remaining != nil {
		return *remaining, nil
	}
	return finalPrice - paidAmount, nil
}
