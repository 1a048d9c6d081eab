package update_booking

import (
	"time"

	"github.com/m04kA/FMH-BookingService/internal/domain"
	"github.com/m04kA/FMH-BookingService/internal/service/bookings/models"
)

// UpdateBookingRequest HTTP request model
type UpdateBookingRequest struct {
	BookingDate      *string `json:"bookingDate,omitempty"` // "2026-05-15"
	DurationCategory *string `json:"durationCategory,omitempty"`
	NumberOfPersons  *int    `json:"numberOfPersons,omitempty" validate:"omitempty,gte=1"`
	CustomerName     *string `json:"customerName,omitempty"`
	CustomerMobile   *string `json:"customerMobile,omitempty"`
	CustomerEmail    *string `json:"customerEmail,omitempty" validate:"omitempty,email"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateBookingRequest) ToServiceRequest() (*models.UpdateBookingRequest, error) {
	req := &models.UpdateBookingRequest{
		DurationCategory: r.DurationCategory,
		NumberOfPersons:  r.NumberOfPersons,
		CustomerName:     r.CustomerName,
		CustomerMobile:   r.CustomerMobile,
		CustomerEmail:    r.CustomerEmail,
	}

	if r.BookingDate != nil {
		date, err := time.Parse(domain.DateFormat, *r.BookingDate)
		if err != nil {
			return nil, err
		}
		req.BookingDate = &date
	}

	return req, nil
}
