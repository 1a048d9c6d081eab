package get_available_farms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/FMH-BookingService/internal/domain"
	"github.com/m04kA/FMH-BookingService/pkg/ptr"
)

// fakeBookingRepo in-memory репозиторий бронирований
type fakeBookingRepo struct {
	bookings []*domain.Booking
	from, to time.Time
}

func (f *fakeBookingRepo) ListIntersectingDay(_ context.Context, dayStart, dayEnd time.Time) ([]*domain.Booking, error) {
	f.from, f.to = dayStart, dayEnd
	return f.bookings, nil
}

// fakeFarmhouseRepo in-memory репозиторий ферм
type fakeFarmhouseRepo struct {
	farmhouses []*domain.Farmhouse
}

func (f *fakeFarmhouseRepo) ListActive(_ context.Context) ([]*domain.Farmhouse, error) {
	return f.farmhouses, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time {
	return p.now
}

var requestedDate = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

// testNow - запрошенный день ещё не наступил
var testNow = time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)

func newUseCase(bookings BookingRepository, farms FarmhouseRepository, now time.Time) *UseCase {
	uc := NewUseCase(bookings, farms, nopLogger{})
	uc.timeProvider = fixedTimeProvider{now: now}
	return uc
}

func farm(id int64, name string) *domain.Farmhouse {
	return &domain.Farmhouse{
		ID:          id,
		Name:        name,
		Slug:        name,
		MaxPersons:  10,
		Bedrooms:    3,
		CheckInFrom: "10:00",
		CheckOutTo:  "22:00",
		Status:      true,
		PriceOptions: []domain.PriceOption{
			{FarmhouseID: id, Category: domain.Regular12HR, Price: 4800, MaxPeople: 10},
			{FarmhouseID: id, Category: domain.Regular24HR, Price: 9000, MaxPeople: 6},
		},
	}
}

func occupying(farmhouseID int64, checkIn, checkOut time.Time) *domain.Booking {
	return &domain.Booking{
		ID:               1,
		FarmhouseID:      farmhouseID,
		BookingDate:      checkIn,
		BookingEndDate:   ptr.Ptr(checkOut),
		DurationCategory: domain.Regular12HR,
		PaymentStatus:    domain.PaymentIncomplete,
		BookingStatus:    domain.BookingUpcoming,
	}
}

func TestExecute_WithoutCategory(t *testing.T) {
	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		occupying(1,
			time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 10, 22, 0, 0, 0, time.UTC)),
	}}
	farms := &fakeFarmhouseRepo{farmhouses: []*domain.Farmhouse{farm(1, "busy"), farm(2, "free")}}

	uc := newUseCase(bookings, farms, testNow)
	resp, err := uc.Execute(context.Background(), &Request{Date: requestedDate})
	require.NoError(t, err)

	require.Len(t, resp.Farms, 2)
	assert.False(t, resp.Farms[0].Available, "any booking touching the day occupies the farm")
	assert.Nil(t, resp.Farms[0].Price, "price needs a category")
	assert.True(t, resp.Farms[1].Available)

	// окно запроса расширено на сутки в обе стороны
	assert.Equal(t, requestedDate.AddDate(0, 0, -1), bookings.from)
	assert.Equal(t, requestedDate.AddDate(0, 0, 2), bookings.to)
}

func TestExecute_WithCategory(t *testing.T) {
	t.Run("free evening slot after a day booking", func(t *testing.T) {
		// ферма занята [10:00, 22:00), запрошенная категория начинается когда
		// угодно - с дефолтным заездом 10:00 она пересекается
		bookings := &fakeBookingRepo{bookings: []*domain.Booking{
			occupying(1,
				time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC),
				time.Date(2026, time.March, 10, 22, 0, 0, 0, time.UTC)),
		}}
		farms := &fakeFarmhouseRepo{farmhouses: []*domain.Farmhouse{farm(1, "alpha")}}

		uc := newUseCase(bookings, farms, testNow)
		resp, err := uc.Execute(context.Background(), &Request{
			Date:             requestedDate,
			DurationCategory: ptr.Ptr("REGULAR_12HR"),
		})
		require.NoError(t, err)

		require.Len(t, resp.Farms, 1)
		assert.False(t, resp.Farms[0].Available)
		require.NotNil(t, resp.Farms[0].Price)
		assert.Equal(t, 4800.0, *resp.Farms[0].Price, "price is reported even when occupied")
	})

	t.Run("missing price option filters the farm out", func(t *testing.T) {
		farms := &fakeFarmhouseRepo{farmhouses: []*domain.Farmhouse{farm(1, "alpha")}}

		uc := newUseCase(&fakeBookingRepo{}, farms, testNow)
		resp, err := uc.Execute(context.Background(), &Request{
			Date:             requestedDate,
			DurationCategory: ptr.Ptr("WEEKEND_24HR"),
		})
		require.NoError(t, err)

		assert.False(t, resp.Farms[0].Available)
		assert.Nil(t, resp.Farms[0].Price)
	})

	t.Run("capacity filter", func(t *testing.T) {
		farms := &fakeFarmhouseRepo{farmhouses: []*domain.Farmhouse{farm(1, "alpha")}}

		uc := newUseCase(&fakeBookingRepo{}, farms, testNow)
		resp, err := uc.Execute(context.Background(), &Request{
			Date:             requestedDate,
			DurationCategory: ptr.Ptr("REGULAR_24HR"), // max 6 persons
			NumberOfPersons:  ptr.Ptr(8),
		})
		require.NoError(t, err)

		assert.False(t, resp.Farms[0].Available)
	})
}

func TestExecute_CheckoutDayFollowsWallClock(t *testing.T) {
	// 24-часовое бронирование с выездом в запрошенный день в 10:00
	checkOut := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
	booked := occupying(1, time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC), checkOut)
	booked.DurationCategory = domain.Regular24HR

	tests := []struct {
		name          string
		now           time.Time
		category      *string
		wantAvailable bool
	}{
		{
			name:          "morning before checkout keeps the farm occupied",
			now:           time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC),
			category:      ptr.Ptr("REGULAR_24HR"),
			wantAvailable: false,
		},
		{
			name:          "farm frees up once the checkout moment has passed",
			now:           time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC),
			category:      ptr.Ptr("REGULAR_24HR"),
			wantAvailable: true,
		},
		{
			name:          "day before the checkout day the farm is occupied",
			now:           testNow,
			category:      ptr.Ptr("REGULAR_24HR"),
			wantAvailable: false,
		},
		{
			name:          "without category the same wall-clock rule applies",
			now:           time.Date(2026, time.March, 10, 11, 0, 0, 0, time.UTC),
			wantAvailable: true,
		},
		{
			name:          "without category before checkout the day is still blocked",
			now:           time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC),
			wantAvailable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := &fakeBookingRepo{bookings: []*domain.Booking{booked}}
			farms := &fakeFarmhouseRepo{farmhouses: []*domain.Farmhouse{farm(1, "alpha")}}

			uc := newUseCase(bookings, farms, tt.now)
			resp, err := uc.Execute(context.Background(), &Request{
				Date:             requestedDate,
				DurationCategory: tt.category,
			})
			require.NoError(t, err)

			require.Len(t, resp.Farms, 1)
			assert.Equal(t, tt.wantAvailable, resp.Farms[0].Available)
		})
	}
}

func TestExecute_CancelledBookingsIgnored(t *testing.T) {
	cancelled := occupying(1,
		time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 10, 22, 0, 0, 0, time.UTC))
	cancelled.PaymentStatus = domain.PaymentCancel

	bookings := &fakeBookingRepo{bookings: []*domain.Booking{cancelled}}
	farms := &fakeFarmhouseRepo{farmhouses: []*domain.Farmhouse{farm(1, "alpha")}}

	uc := newUseCase(bookings, farms, testNow)
	resp, err := uc.Execute(context.Background(), &Request{Date: requestedDate})
	require.NoError(t, err)

	assert.True(t, resp.Farms[0].Available)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{}, &fakeFarmhouseRepo{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		Date:             requestedDate,
		DurationCategory: ptr.Ptr("HOLIDAY_48HR"),
	})
	assert.ErrorIs(t, err, ErrInvalidDurationCategory)
}
