package get_available_farms

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/FMH-BookingService/internal/domain"
	"github.com/m04kA/FMH-BookingService/pkg/ptr"
)

// UseCase use case для подбора доступных ферм на дату
type UseCase struct {
	bookingRepo   BookingRepository
	farmhouseRepo FarmhouseRepository
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	farmhouseRepo FarmhouseRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		farmhouseRepo: farmhouseRepo,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case подбора доступных ферм
// Все бронирования, пересекающиеся с запрошенным днём, выбираются одним
// запросом; пересечения считаются по полуоткрытым интервалам в памяти
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableFarms: date=%s", req.Date.Format(domain.DateFormat))

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	var category *domain.DurationCategory
	if req.DurationCategory != nil {
		parsed, err := domain.ParseDurationCategory(*req.DurationCategory)
		if err != nil {
			uc.logger.Warn("GetAvailableFarms: unknown duration category %q", *req.DurationCategory)
			return nil, fmt.Errorf("%w: %q", ErrInvalidDurationCategory, *req.DurationCategory)
		}
		category = &parsed
	}

	farmhouses, err := uc.farmhouseRepo.ListActive(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableFarms: failed to list active farmhouses: %v", err)
		return nil, fmt.Errorf("%w: failed to list farmhouses: %v", ErrInternal, err)
	}

	// Окно дня расширяем на сутки в обе стороны: 24-часовое бронирование,
	// начавшееся накануне, всё ещё может занимать запрошенный день
	dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
	bookings, err := uc.bookingRepo.ListIntersectingDay(ctx, dayStart.AddDate(0, 0, -1), dayStart.AddDate(0, 0, 2))
	if err != nil {
		uc.logger.Error("GetAvailableFarms: failed to list bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	bookingsByFarm := make(map[int64][]*domain.Booking)
	for _, b := range bookings {
		if !b.BlocksAvailability() {
			continue
		}
		bookingsByFarm[b.FarmhouseID] = append(bookingsByFarm[b.FarmhouseID], b)
	}

	now := uc.timeProvider.Now()

	farms := make([]FarmAvailability, 0, len(farmhouses))
	for _, farmhouse := range farmhouses {
		entry := FarmAvailability{
			FarmhouseID:   farmhouse.ID,
			Name:          farmhouse.Name,
			Slug:          farmhouse.Slug,
			MaxPersons:    farmhouse.MaxPersons,
			Bedrooms:      farmhouse.Bedrooms,
			IsMostVisited: farmhouse.IsMostVisited,
		}

		available, price, err := uc.evaluateFarm(farmhouse, category, req, now, bookingsByFarm[farmhouse.ID])
		if err != nil {
			uc.logger.Warn("GetAvailableFarms: failed to evaluate farmhouse id=%d: %v", farmhouse.ID, err)
			continue
		}
		entry.Available = available
		entry.Price = price

		farms = append(farms, entry)
	}

	uc.logger.Info("GetAvailableFarms: evaluated %d farmhouses for %s",
		len(farms), req.Date.Format(domain.DateFormat))

	return &Response{Date: req.Date, Farms: farms}, nil
}

// evaluateFarm решает, доступна ли ферма на запрошенную дату
// Бронирование с выездом в запрошенный день держит ферму занятой,
// пока настенные часы не прошли момент выезда
func (uc *UseCase) evaluateFarm(
	farmhouse *domain.Farmhouse,
	category *domain.DurationCategory,
	req *Request,
	now time.Time,
	existing []*domain.Booking,
) (bool, *float64, error) {
	var price *float64

	if category != nil {
		option := farmhouse.PriceOptionFor(*category)
		if option == nil {
			// Нет прайс-опции для категории - ферма не подходит под запрос
			return false, nil, nil
		}
		if req.NumberOfPersons != nil && *req.NumberOfPersons > option.MaxPeople {
			return false, nil, nil
		}
		price = ptr.Ptr(option.Price)

		checkIn, err := domain.DeriveCheckIn(req.Date, farmhouse.CheckInDefault(), nil)
		if err != nil {
			return false, nil, err
		}
		checkOut, err := domain.DeriveCheckOut(checkIn, *category, farmhouse.CheckOutDefault())
		if err != nil {
			return false, nil, err
		}
		requested := domain.Interval{CheckIn: checkIn, CheckOut: checkOut}

		for _, b := range existing {
			interval, err := b.Interval()
			if err != nil {
				// Битый интервал считаем блокирующим
				return false, price, nil
			}
			if checkoutOnDay(interval, req.Date) {
				if now.Before(interval.CheckOut) {
					return false, price, nil
				}
				// Гость уже выехал - бронирование день не занимает
				continue
			}
			if requested.Overlaps(interval) {
				return false, price, nil
			}
		}
		return true, price, nil
	}

	// Без категории ферма считается занятой, если хоть одно бронирование
	// пересекается с календарным днём
	dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
	day := domain.Interval{CheckIn: dayStart, CheckOut: dayStart.AddDate(0, 0, 1)}

	for _, b := range existing {
		interval, err := b.Interval()
		if err != nil {
			return false, nil, nil
		}
		if checkoutOnDay(interval, req.Date) {
			if now.Before(interval.CheckOut) {
				return false, nil, nil
			}
			continue
		}
		if day.Overlaps(interval) {
			return false, nil, nil
		}
	}
	return true, nil, nil
}

// checkoutOnDay проверяет, что выезд по бронированию приходится на
// запрошенный календарный день
func checkoutOnDay(interval domain.Interval, date time.Time) bool {
	co := interval.CheckOut
	return co.Year() == date.Year() && co.Month() == date.Month() && co.Day() == date.Day()
}
