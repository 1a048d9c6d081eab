package get_bookings

import (
	"context"

	"github.com/m04kA/FMH-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	FindAll(ctx context.Context, req *models.FindAllRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
