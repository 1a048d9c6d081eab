package update_payment_status

import (
	"time"

	"github.com/m04kA/FMH-BookingService/internal/domain"
)

// Request модель запроса на смену платёжного статуса
type Request struct {
	BookingID         int64
	PaymentStatus     string   // partial | paid | cancel | incomplete
	PartialPaidAmount *float64 // обязателен при partial
	RemainingAmount   *float64 // опционально, выводится из finalPrice при отсутствии
	Notes             *string
}

// Response модель ответа с обновлённым бронированием
type Response struct {
	ID                int64
	InvoiceToken      string
	PaymentStatus     string
	FarmStatus        string
	FinalPrice        float64
	PartialPaidAmount *float64
	RemainingAmount   *float64
	PaymentHistory    domain.PaymentHistory
	UpdatedAt         time.Time
}
