package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/FMH-BookingService/internal/domain"
	"github.com/m04kA/FMH-BookingService/internal/infra/storage/booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetByFarmhouse(ctx context.Context, farmhouseID int64) ([]*domain.Booking, error)
	CountPerFarmhouse(ctx context.Context) ([]booking.FarmhouseBookingCount, error)
}

// FarmhouseRepository интерфейс репозитория ферм
type FarmhouseRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Farmhouse, error)
	SetMostVisited(ctx context.Context, farmhouseID int64) error
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByMobile(ctx context.Context, mobileNo string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	UpdateName(ctx context.Context, userID int64, name string) error
	AppendBookingHistory(ctx context.Context, userID int64, entry domain.UserBookingEntry) error
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
