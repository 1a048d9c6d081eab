package models

import (
	"time"

	"github.com/m04kA/FMH-BookingService/internal/domain"
)

// Request модели

// FindAllRequest запрос на получение списка бронирований с фильтрацией
type FindAllRequest struct {
	FarmhouseID   *int64     `json:"farmhouseId,omitempty"`
	UserID        *int64     `json:"userId,omitempty"`
	PaymentStatus *string    `json:"paymentStatus,omitempty"`
	DateFrom      *time.Time `json:"dateFrom,omitempty"`
	DateTo        *time.Time `json:"dateTo,omitempty"`
	Page          int        `json:"page"`
	PerPage       int        `json:"perPage"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *FindAllRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		FarmhouseID: r.FarmhouseID,
		UserID:      r.UserID,
		DateFrom:    r.DateFrom,
		DateTo:      r.DateTo,
	}

	if r.PaymentStatus != nil {
		status := domain.PaymentStatus(*r.PaymentStatus)
		if !status.IsValid() {
			return filter, ErrInvalidPaymentStatus
		}
		filter.PaymentStatus = &status
	}

	page := r.Page
	if page < 1 {
		page = 1
	}
	perPage := r.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	filter.Limit = perPage
	filter.Offset = (page - 1) * perPage

	return filter, nil
}

// UpdateBookingRequest запрос на административное редактирование бронирования
type UpdateBookingRequest struct {
	BookingDate      *time.Time `json:"bookingDate,omitempty"`
	DurationCategory *string    `json:"durationCategory,omitempty"`
	NumberOfPersons  *int       `json:"numberOfPersons,omitempty"`
	CustomerName     *string    `json:"customerName,omitempty"`
	CustomerMobile   *string    `json:"customerMobile,omitempty"`
	CustomerEmail    *string    `json:"customerEmail,omitempty"`
}

// IsEmpty возвращает true, если в запросе нет ни одного поля
func (r *UpdateBookingRequest) IsEmpty() bool {
	return r.BookingDate == nil &&
		r.DurationCategory == nil &&
		r.NumberOfPersons == nil &&
		r.CustomerName == nil &&
		r.CustomerMobile == nil &&
		r.CustomerEmail == nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID           int64  `json:"id"`
	InvoiceToken string `json:"invoiceToken"`
	UserID       *int64 `json:"userId,omitempty"`
	FarmhouseID  int64  `json:"farmhouseId"`

	CustomerName   *string `json:"customerName,omitempty"`
	CustomerMobile *string `json:"customerMobile,omitempty"`
	CustomerEmail  *string `json:"customerEmail,omitempty"`

	BookingDate     string  `json:"bookingDate"`              // "2026-05-15"
	BookingEndDate  *string `json:"bookingEndDate,omitempty"` // "2026-05-16"
	BookingTimeFrom string  `json:"bookingTimeFrom"`          // "10:00"
	BookingTimeTo   string  `json:"bookingTimeTo"`            // "22:00"
	BookingHours    int     `json:"bookingHours"`

	NumberOfPersons  int     `json:"numberOfPersons"`
	DurationCategory string  `json:"durationCategory"`
	OriginalPrice    float64 `json:"originalPrice"`
	DiscountAmount   float64 `json:"discountAmount"`
	FinalPrice       float64 `json:"finalPrice"`

	IsLoggedIn    bool   `json:"isLoggedIn"`
	PaymentStatus string `json:"paymentStatus"`
	FarmStatus    string `json:"farmStatus"`
	BookingStatus string `json:"bookingStatus"`

	PaidAmount      float64 `json:"paidAmount"`
	RemainingAmount float64 `json:"remainingAmount"`

	PaymentHistory domain.PaymentHistory `json:"paymentHistory,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований и пагинацией
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PerPage  int               `json:"perPage"`
}

// BookedInterval занятый интервал фермы
type BookedInterval struct {
	BookingID     int64  `json:"bookingId"`
	CheckIn       string `json:"checkIn"`  // ISO 8601
	CheckOut      string `json:"checkOut"` // ISO 8601
	BookingStatus string `json:"bookingStatus"`
}

// FarmAvailabilityResponse ответ с занятыми интервалами фермы
type FarmAvailabilityResponse struct {
	FarmhouseID     int64            `json:"farmhouseId"`
	BookedIntervals []BookedInterval `json:"bookedIntervals"`
}

// CategoryCount число бронирований одной категории длительности
type CategoryCount struct {
	DurationCategory string `json:"durationCategory"`
	Count            int64  `json:"count"`
}

// FarmStatisticsResponse агрегированная статистика фермы
type FarmStatisticsResponse struct {
	FarmhouseID      int64           `json:"farmhouseId"`
	TotalBookings    int64           `json:"totalBookings"`
	CancelledCount   int64           `json:"cancelledCount"`
	UpcomingCount    int64           `json:"upcomingCount"`
	CurrentCount     int64           `json:"currentCount"`
	ExpiredCount     int64           `json:"expiredCount"`
	TotalRevenue     float64         `json:"totalRevenue"`
	CollectedRevenue float64         `json:"collectedRevenue"`
	TotalPersons     int64           `json:"totalPersons"`
	ByCategory       []CategoryCount `json:"byCategory"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	paid, remaining := b.PaidAmounts()

	resp := &BookingResponse{
		ID:               b.ID,
		InvoiceToken:     b.InvoiceToken,
		UserID:           b.UserID,
		FarmhouseID:      b.FarmhouseID,
		CustomerName:     b.CustomerName,
		CustomerMobile:   b.CustomerMobile,
		CustomerEmail:    b.CustomerEmail,
		BookingDate:      b.BookingDate.Format(domain.DateFormat),
		BookingTimeFrom:  b.BookingTimeFrom.String(),
		BookingTimeTo:    b.BookingTimeTo.String(),
		BookingHours:     b.BookingHours,
		NumberOfPersons:  b.NumberOfPersons,
		DurationCategory: string(b.DurationCategory),
		OriginalPrice:    b.OriginalPrice,
		DiscountAmount:   b.DiscountAmount,
		FinalPrice:       b.FinalPrice,
		IsLoggedIn:       b.IsLoggedIn,
		PaymentStatus:    string(b.PaymentStatus),
		FarmStatus:       string(b.FarmStatus),
		BookingStatus:    string(b.BookingStatus),
		PaidAmount:       paid,
		RemainingAmount:  remaining,
		PaymentHistory:   b.PaymentHistory,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}

	if b.BookingEndDate != nil {
		endDate := b.BookingEndDate.Format(domain.DateFormat)
		resp.BookingEndDate = &endDate
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) []BookingResponse {
	result := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, *FromDomainBooking(b))
	}
	return result
}
