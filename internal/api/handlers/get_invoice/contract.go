package get_invoice

import (
	"context"

	"github.com/m04kA/FMH-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetByInvoiceToken(ctx context.Context, token string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
