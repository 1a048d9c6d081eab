package get_farm_availability

import (
	"context"

	"github.com/m04kA/FMH-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetFarmAvailability(ctx context.Context, farmhouseID int64) (*models.FarmAvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
