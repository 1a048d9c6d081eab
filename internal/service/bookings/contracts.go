package bookings

import (
	"context"
	"time"

	"github.com/m04kA/FMH-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/FMH-BookingService/internal/infra/storage/booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByInvoiceToken(ctx context.Context, token string) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64) ([]*domain.Booking, error)
	GetByFarmhouse(ctx context.Context, farmhouseID int64) ([]*domain.Booking, error)
	ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, int64, error)
	UpdateLifecycle(ctx context.Context, id int64, status domain.BookingStatus, farmStatus domain.FarmStatus, nextCheckAt *time.Time) error
	Update(ctx context.Context, id int64, patch bookingRepo.UpdatePatch) error
	Delete(ctx context.Context, id int64) error
	CountPerFarmhouse(ctx context.Context) ([]bookingRepo.FarmhouseBookingCount, error)
}

// FarmhouseRepository интерфейс репозитория ферм
type FarmhouseRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Farmhouse, error)
	SetMostVisited(ctx context.Context, farmhouseID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
