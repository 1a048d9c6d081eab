package update_payment_status

import (
	"time"

	"github.com/m04kA/FMH-BookingService/internal/domain"
	updatePaymentStatus "github.com/m04kA/FMH-BookingService/internal/usecase/update_payment_status"
)

// UpdatePaymentStatusRequest HTTP request model
type UpdatePaymentStatusRequest struct {
	PaymentStatus     string   `json:"paymentStatus" validate:"required,oneof=incomplete partial paid cancel"`
	PartialPaidAmount *float64 `json:"partialPaidAmount,omitempty" validate:"omitempty,gt=0"`
	RemainingAmount   *float64 `json:"remainingAmount,omitempty" validate:"omitempty,gte=0"`
	Notes             *string  `json:"notes,omitempty"`
}

// PaymentStatusResponse HTTP response model
type PaymentStatusResponse struct {
	ID                int64                 `json:"id"`
	InvoiceToken      string                `json:"invoiceToken"`
	PaymentStatus     string                `json:"paymentStatus"`
	FarmStatus        string                `json:"farmStatus"`
	FinalPrice        float64               `json:"finalPrice"`
	PartialPaidAmount *float64              `json:"partialPaidAmount,omitempty"`
	RemainingAmount   *float64              `json:"remainingAmount,omitempty"`
	PaymentHistory    domain.PaymentHistory `json:"paymentHistory"`
	UpdatedAt         string                `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdatePaymentStatusRequest) ToUseCaseRequest(bookingID int64) *updatePaymentStatus.Request {
	return &updatePaymentStatus.Request{
		BookingID:         bookingID,
		PaymentStatus:     r.PaymentStatus,
		PartialPaidAmount: r.PartialPaidAmount,
		RemainingAmount:   r.RemainingAmount,
		Notes:             r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updatePaymentStatus.Response) *PaymentStatusResponse {
	return &PaymentStatusResponse{
		ID:                resp.ID,
		InvoiceToken:      resp.InvoiceToken,
		PaymentStatus:     resp.PaymentStatus,
		FarmStatus:        resp.FarmStatus,
		FinalPrice:        resp.FinalPrice,
		PartialPaidAmount: resp.PartialPaidAmount,
		RemainingAmount:   resp.RemainingAmount,
		PaymentHistory:    resp.PaymentHistory,
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
	}
}
