package create_booking

import (
	"time"

	"github.com/m04kA/FMH-BookingService/internal/domain"
	"github.com/m04kA/FMH-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID      *int64 // ID пользователя из заголовка авторизации (nil для гостя)
	FarmhouseID int64  // ID фермы

	// Контактные данные клиента; для гостя обязательны имя
	// и хотя бы один контакт (телефон или email)
	CustomerName   *string
	CustomerMobile *string
	CustomerEmail  *string

	BookingDate      time.Time         // Дата заезда (без времени)
	DurationCategory string            // Категория длительности (строго из закрытого набора)
	NumberOfPersons  int               // Число гостей
	CheckInTime      *types.TimeString // Переопределение времени заезда (опционально)

	// Переопределение базовой цены; ноль и nil - цена из прайс-опции
	OriginalPrice *float64
	// Переопределение признака авторизации для расчёта скидки
	IsLoggedIn *bool

	// Платёжные поля на момент создания (опционально)
	PaymentStatus     *string  // incomplete | partial | paid
	PartialPaidAmount *float64 // обязателен при partial
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID           int64
	InvoiceToken string
	UserID       *int64
	FarmhouseID  int64

	BookingDate     time.Time
	BookingEndDate  *time.Time
	BookingTimeFrom types.TimeString
	BookingTimeTo   types.TimeString
	BookingHours    int

	NumberOfPersons  int
	DurationCategory string
	OriginalPrice    float64
	DiscountAmount   float64
	FinalPrice       float64

	IsLoggedIn    bool
	PaymentStatus string
	FarmStatus    string
	BookingStatus string

	PartialPaidAmount *float64
	RemainingAmount   *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                b.ID,
		InvoiceToken:      b.InvoiceToken,
		UserID:            b.UserID,
		FarmhouseID:       b.FarmhouseID,
		BookingDate:       b.BookingDate,
		BookingEndDate:    b.BookingEndDate,
		BookingTimeFrom:   b.BookingTimeFrom,
		BookingTimeTo:     b.BookingTimeTo,
		BookingHours:      b.BookingHours,
		NumberOfPersons:   b.NumberOfPersons,
		DurationCategory:  string(b.DurationCategory),
		OriginalPrice:     b.OriginalPrice,
		DiscountAmount:    b.DiscountAmount,
		FinalPrice:        b.FinalPrice,
		IsLoggedIn:        b.IsLoggedIn,
		PaymentStatus:     string(b.PaymentStatus),
		FarmStatus:        string(b.FarmStatus),
		BookingStatus:     string(b.BookingStatus),
		PartialPaidAmount: b.PartialPaidAmount,
		RemainingAmount:   b.RemainingAmount,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}
