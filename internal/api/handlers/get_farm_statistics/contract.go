package get_farm_statistics

import (
	"context"

	"github.com/m04kA/FMH-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetFarmStatistics(ctx context.Context, farmhouseID int64) (*models.FarmStatisticsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
