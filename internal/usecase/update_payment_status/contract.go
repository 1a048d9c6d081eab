package update_payment_status

import (
	"context"
	"time"

	"github.com/m04kA/FMH-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateLifecycle(ctx context.Context, id int64, status domain.BookingStatus, farmStatus domain.FarmStatus, nextCheckAt *time.Time) error
	UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus, farmStatus domain.FarmStatus, partialPaid, remaining *float64, history domain.PaymentHistory) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
