package get_available_farms

import (
	"context"
	"time"

	"github.com/m04kA/FMH-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListIntersectingDay(ctx context.Context, dayStart, dayEnd time.Time) ([]*domain.Booking, error)
}

// FarmhouseRepository интерфейс репозитория ферм
type FarmhouseRepository interface {
	ListActive(ctx context.Context) ([]*domain.Farmhouse, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
