package create_booking

import (
	"time"

	"github.com/m04kA/FMH-BookingService/internal/domain"
	createBooking "github.com/m04kA/FMH-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/FMH-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	FarmhouseID      int64    `json:"farmhouseId" validate:"required,gt=0"`
	BookingDate      string   `json:"bookingDate" validate:"required"` // "2026-05-15"
	DurationCategory string   `json:"durationCategory" validate:"required"`
	NumberOfPersons  int      `json:"numberOfPersons" validate:"required,gte=1"`
	CustomerName     *string  `json:"customerName,omitempty"`
	CustomerMobile   *string  `json:"customerMobile,omitempty"`
	CustomerEmail    *string  `json:"customerEmail,omitempty" validate:"omitempty,email"`
	CheckInTime      *string  `json:"checkInTime,omitempty"` // "14:00"
	OriginalPrice    *float64 `json:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	IsLoggedIn       *bool    `json:"isLoggedIn,omitempty"`
	PaymentStatus    *string  `json:"paymentStatus,omitempty" validate:"omitempty,oneof=incomplete partial paid"`
	PartialPaid      *float64 `json:"partialPaidAmount,omitempty" validate:"omitempty,gt=0"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID               int64    `json:"id"`
	InvoiceToken     string   `json:"invoiceToken"`
	UserID           *int64   `json:"userId,omitempty"`
	FarmhouseID      int64    `json:"farmhouseId"`
	BookingDate      string   `json:"bookingDate"`
	BookingEndDate   *string  `json:"bookingEndDate,omitempty"`
	BookingTimeFrom  string   `json:"bookingTimeFrom"`
	BookingTimeTo    string   `json:"bookingTimeTo"`
	BookingHours     int      `json:"bookingHours"`
	NumberOfPersons  int      `json:"numberOfPersons"`
	DurationCategory string   `json:"durationCategory"`
	OriginalPrice    float64  `json:"originalPrice"`
	DiscountAmount   float64  `json:"discountAmount"`
	FinalPrice       float64  `json:"finalPrice"`
	IsLoggedIn       bool     `json:"isLoggedIn"`
	PaymentStatus    string   `json:"paymentStatus"`
	FarmStatus       string   `json:"farmStatus"`
	BookingStatus    string   `json:"bookingStatus"`
	PartialPaid      *float64 `json:"partialPaidAmount,omitempty"`
	RemainingAmount  *float64 `json:"remainingAmount,omitempty"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID *int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{
		UserID:            userID,
		FarmhouseID:       r.FarmhouseID,
		CustomerName:      r.CustomerName,
		CustomerMobile:    r.CustomerMobile,
		CustomerEmail:     r.CustomerEmail,
		BookingDate:       bookingDate,
		DurationCategory:  r.DurationCategory,
		NumberOfPersons:   r.NumberOfPersons,
		OriginalPrice:     r.OriginalPrice,
		IsLoggedIn:        r.IsLoggedIn,
		PaymentStatus:     r.PaymentStatus,
		PartialPaidAmount: r.PartialPaid,
	}

	if r.CheckInTime != nil {
		checkInTime, err := types.NewTimeStringFromString(*r.CheckInTime)
		if err != nil {
			return nil, err
		}
		req.CheckInTime = &checkInTime
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	result := &BookingResponse{
		ID:               resp.ID,
		InvoiceToken:     resp.InvoiceToken,
		UserID:           resp.UserID,
		FarmhouseID:      resp.FarmhouseID,
		BookingDate:      resp.BookingDate.Format(domain.DateFormat),
		BookingTimeFrom:  resp.BookingTimeFrom.String(),
		BookingTimeTo:    resp.BookingTimeTo.String(),
		BookingHours:     resp.BookingHours,
		NumberOfPersons:  resp.NumberOfPersons,
		DurationCategory: resp.DurationCategory,
		OriginalPrice:    resp.OriginalPrice,
		DiscountAmount:   resp.DiscountAmount,
		FinalPrice:       resp.FinalPrice,
		IsLoggedIn:       resp.IsLoggedIn,
		PaymentStatus:    resp.PaymentStatus,
		FarmStatus:       resp.FarmStatus,
		BookingStatus:    resp.BookingStatus,
		PartialPaid:      resp.PartialPaidAmount,
		RemainingAmount:  resp.RemainingAmount,
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.BookingEndDate != nil {
		endDate := resp.BookingEndDate.Format(domain.DateFormat)
		result.BookingEndDate = &endDate
	}

	return result
}
