package statussweep

import (
	"context"
	"time"

	"github.com/m04kA/FMH-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListDueForStatusCheck(ctx context.Context, now time.Time) ([]*domain.Booking, error)
	ListNonTerminal(ctx context.Context) ([]*domain.Booking, error)
	UpdateLifecycle(ctx context.Context, id int64, status domain.BookingStatus, farmStatus domain.FarmStatus, nextCheckAt *time.Time) error
}

// Metrics интерфейс метрик sweep-проходов
type Metrics interface {
	ObserveSweepPass(pass string, updated, failures int)
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
