package bookings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/FMH-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/FMH-BookingService/internal/infra/storage/booking"
	farmhouseRepo "github.com/m04kA/FMH-BookingService/internal/infra/storage/farmhouse"
	"github.com/m04kA/FMH-BookingService/internal/service/bookings/models"
	"github.com/m04kA/FMH-BookingService/pkg/ptr"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo   BookingRepository
	farmhouseRepo FarmhouseRepository
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	farmhouseRepo FarmhouseRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		farmhouseRepo: farmhouseRepo,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// GetByID получает бронирование по ID
// Перед отдачей лениво пересчитывает статус жизненного цикла, если
// запланированный момент проверки уже наступил
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	s.refreshLifecycle(ctx, booking)

	return models.FromDomainBooking(booking), nil
}

// GetByInvoiceToken получает бронирование по публичному invoice-токену
// Эндпоинт не требует авторизации - токен и есть право доступа
func (s *Service) GetByInvoiceToken(ctx context.Context, token string) (*models.BookingResponse, error) {
	s.logger.Info("GetByInvoiceToken: fetching invoice %s", token)

	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByInvoiceToken(ctx, token)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByInvoiceToken: invoice %s not found", token)
			return nil, ErrInvoiceNotFound
		}
		s.logger.Error("GetByInvoiceToken: repository error for invoice %s: %v", token, err)
		return nil, fmt.Errorf("%w: GetByInvoiceToken - repository error: %v", ErrInternal, err)
	}

	s.refreshLifecycle(ctx, booking)

	return models.FromDomainBooking(booking), nil
}

// GetUserOrders получает историю бронирований пользователя
func (s *Service) GetUserOrders(ctx context.Context, userID int64) ([]models.BookingResponse, error) {
	s.logger.Info("GetUserOrders: fetching bookings for user=%d", userID)

	if userID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("GetUserOrders: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserOrders - repository error: %v", ErrInternal, err)
	}

	for _, b := range bookings {
		s.refreshLifecycle(ctx, b)
	}

	s.logger.Info("GetUserOrders: fetched %d bookings for user=%d", len(bookings), userID)
	return models.FromDomainBookingList(bookings), nil
}

// FindAll получает бронирования с фильтрацией и пагинацией (админ-список)
func (s *Service) FindAll(ctx context.Context, req *models.FindAllRequest) (*models.BookingListResponse, error) {
	s.logger.Info("FindAll: fetching bookings page=%d, perPage=%d", req.Page, req.PerPage)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("FindAll: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, total, err := s.bookingRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("FindAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: FindAll - repository error: %v", ErrInternal, err)
	}

	for _, b := range bookings {
		s.refreshLifecycle(ctx, b)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.Limit

	s.logger.Info("FindAll: fetched %d of %d bookings", len(bookings), total)
	return &models.BookingListResponse{
		Bookings: models.FromDomainBookingList(bookings),
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}, nil
}

// GetFarmAvailability получает занятые интервалы фермы
// Отменённые бронирования не блокируют доступность и не попадают в ответ
func (s *Service) GetFarmAvailability(ctx context.Context, farmhouseID int64) (*models.FarmAvailabilityResponse, error) {
	s.logger.Info("GetFarmAvailability: fetching availability for farmhouse=%d", farmhouseID)

	if _, err := s.farmhouseRepo.GetByID(ctx, farmhouseID); err != nil {
		if errors.Is(err, farmhouseRepo.ErrFarmhouseNotFound) {
			s.logger.Warn("GetFarmAvailability: farmhouse id=%d not found", farmhouseID)
			return nil, ErrFarmhouseNotFound
		}
		s.logger.Error("GetFarmAvailability: failed to get farmhouse id=%d: %v", farmhouseID, err)
		return nil, fmt.Errorf("%w: GetFarmAvailability - repository error: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.GetByFarmhouse(ctx, farmhouseID)
	if err != nil {
		s.logger.Error("GetFarmAvailability: repository error for farmhouse=%d: %v", farmhouseID, err)
		return nil, fmt.Errorf("%w: GetFarmAvailability - repository error: %v", ErrInternal, err)
	}

	intervals := make([]models.BookedInterval, 0, len(bookings))
	for _, b := range bookings {
		if !b.BlocksAvailability() {
			continue
		}
		s.refreshLifecycle(ctx, b)
		if b.BookingStatus == domain.BookingExpired {
			continue
		}

		interval, err := b.Interval()
		if err != nil {
			s.logger.Warn("GetFarmAvailability: failed to derive interval for booking id=%d: %v", b.ID, err)
			continue
		}
		intervals = append(intervals, models.BookedInterval{
			BookingID:     b.ID,
			CheckIn:       interval.CheckIn.Format(time.RFC3339),
			CheckOut:      interval.CheckOut.Format(time.RFC3339),
			BookingStatus: string(b.BookingStatus),
		})
	}

	s.logger.Info("GetFarmAvailability: farmhouse=%d has %d booked intervals", farmhouseID, len(intervals))
	return &models.FarmAvailabilityResponse{
		FarmhouseID:     farmhouseID,
		BookedIntervals: intervals,
	}, nil
}

// Update выполняет административное редактирование бронирования
// Изменение даты, категории или числа гостей пересчитывает цену и скидку
// и повторно проверяет пересечения в сериализуемой транзакции
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Update: updating booking id=%d", id)

	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: at least one field is required", ErrInvalidInput)
	}

	var category *domain.DurationCategory
	if req.DurationCategory != nil {
		parsed, err := domain.ParseDurationCategory(*req.DurationCategory)
		if err != nil {
			s.logger.Warn("Update: unknown duration category %q", *req.DurationCategory)
			return nil, fmt.Errorf("%w: %q", ErrInvalidDurationCategory, *req.DurationCategory)
		}
		category = &parsed
	}

	if req.NumberOfPersons != nil && *req.NumberOfPersons < domain.MinNumberOfPersons {
		return nil, fmt.Errorf("%w: numberOfPersons must be at least %d", ErrInvalidInput, domain.MinNumberOfPersons)
	}

	var result *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Update: booking id=%d not found", id)
				return ErrBookingNotFound
			}
			s.logger.Error("Update: failed to get booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		patch := bookingRepo.UpdatePatch{
			CustomerName:   req.CustomerName,
			CustomerMobile: req.CustomerMobile,
			CustomerEmail:  req.CustomerEmail,
		}

		// Пересчёт цены и интервала нужен только при изменении параметров брони
		if req.BookingDate != nil || category != nil || req.NumberOfPersons != nil {
			if err := s.applyRescheduling(txCtx, booking, req, category, &patch); err != nil {
				return err
			}
		}

		if err := s.bookingRepo.Update(txCtx, id, patch); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Update: failed to update booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		updated, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			s.logger.Error("Update: failed to reload booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated booking id=%d", id)
	return models.FromDomainBooking(result), nil
}

// applyRescheduling пересчитывает цену, скидку и интервал занятости и
// дополняет patch. Вызывается внутри сериализуемой транзакции.
func (s *Service) applyRescheduling(
	txCtx context.Context,
	booking *domain.Booking,
	req *models.UpdateBookingRequest,
	category *domain.DurationCategory,
	patch *bookingRepo.UpdatePatch,
) error {
	farmhouse, err := s.farmhouseRepo.GetByID(txCtx, booking.FarmhouseID)
	if err != nil {
		s.logger.Error("Update: failed to get farmhouse id=%d: %v", booking.FarmhouseID, err)
		return fmt.Errorf("%w: Update - failed to get farmhouse: %v", ErrInternal, err)
	}

	newCategory := booking.DurationCategory
	if category != nil {
		newCategory = *category
	}
	newPersons := booking.NumberOfPersons
	if req.NumberOfPersons != nil {
		newPersons = *req.NumberOfPersons
	}
	newDate := booking.BookingDate
	if req.BookingDate != nil {
		newDate = *req.BookingDate
	}

	price, err := farmhouse.ResolvePrice(newCategory, newPersons)
	if err != nil {
		if errors.Is(err, domain.ErrPriceNotFound) {
			s.logger.Warn("Update: no price option for category %s on farmhouse id=%d",
				newCategory, booking.FarmhouseID)
			return fmt.Errorf("%w: %v", ErrPriceNotFound, err)
		}
		if errors.Is(err, domain.ErrCapacityExceeded) {
			s.logger.Warn("Update: capacity exceeded for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: %v", ErrCapacityExceeded, err)
		}
		return fmt.Errorf("%w: Update - failed to resolve price: %v", ErrInternal, err)
	}

	discount := domain.ComputeDiscount(price, booking.IsLoggedIn)
	finalPrice := price - discount

	checkIn, err := domain.DeriveCheckIn(newDate, farmhouse.CheckInDefault(), &booking.BookingTimeFrom)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	checkOut, err := domain.DeriveCheckOut(checkIn, newCategory, farmhouse.CheckOutDefault())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	requested := domain.Interval{CheckIn: checkIn, CheckOut: checkOut}

	// Пересечения проверяем под блокировкой FOR UPDATE, исключая саму бронь
	existing, err := s.bookingRepo.GetByFarmhouse(txCtx, booking.FarmhouseID)
	if err != nil {
		s.logger.Error("Update: failed to get bookings for farmhouse id=%d: %v", booking.FarmhouseID, err)
		return fmt.Errorf("%w: Update - failed to get bookings: %v", ErrInternal, err)
	}
	for _, other := range existing {
		if other.ID == booking.ID || !other.BlocksAvailability() {
			continue
		}
		interval, err := other.Interval()
		if err != nil {
			s.logger.Warn("Update: treating booking id=%d with broken interval as blocking", other.ID)
			return ErrDatesOverlap
		}
		if requested.Overlaps(interval) {
			s.logger.Warn("Update: booking id=%d overlaps with booking id=%d", booking.ID, other.ID)
			return ErrDatesOverlap
		}
	}

	now := s.timeProvider.Now()
	newStatus := domain.EvaluateLifecycle(checkIn, checkOut, now)
	nextCheck := domain.NextStatusCheck(newStatus, checkIn, checkOut)

	// Перенос меняет и занятость фермы: занята только текущей бронью
	newFarm := domain.FarmAvailable
	if newStatus == domain.BookingCurrent {
		newFarm = domain.FarmUnavailable
	}

	patch.BookingDate = ptr.Ptr(checkIn)
	patch.BookingEndDate = ptr.Ptr(checkOut)
	patch.BookingTimeFrom = ptr.Ptr(booking.BookingTimeFrom.String())
	patch.BookingTimeTo = ptr.Ptr(farmhouse.CheckOutDefault().String())
	patch.BookingHours = ptr.Ptr(newCategory.Hours())
	patch.NumberOfPersons = ptr.Ptr(newPersons)
	patch.DurationCategory = ptr.Ptr(newCategory)
	patch.OriginalPrice = ptr.Ptr(price)
	patch.DiscountAmount = ptr.Ptr(discount)
	patch.FinalPrice = ptr.Ptr(finalPrice)
	patch.BookingStatus = ptr.Ptr(newStatus)
	patch.FarmStatus = ptr.Ptr(newFarm)
	patch.NextStatusCheckAt = nextCheck
	if nextCheck == nil {
		// Бронь перенесена сразу в expired - запланированная проверка не нужна
		patch.ClearNextStatusCheck = true
	}

	return nil
}

// Remove удаляет бронирование и пересчитывает флаг самой посещаемой фермы
func (s *Service) Remove(ctx context.Context, id int64) error {
	s.logger.Info("Remove: deleting booking id=%d", id)

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Remove: booking id=%d not found", id)
			return ErrBookingNotFound
		}
		s.logger.Error("Remove: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Remove - repository error: %v", ErrInternal, err)
	}

	s.recomputeMostVisited(ctx)

	s.logger.Info("Remove: successfully deleted booking id=%d", id)
	return nil
}

// GetFarmStatistics возвращает агрегированную статистику фермы
func (s *Service) GetFarmStatistics(ctx context.Context, farmhouseID int64) (*models.FarmStatisticsResponse, error) {
	s.logger.Info("GetFarmStatistics: fetching statistics for farmhouse=%d", farmhouseID)

	if _, err := s.farmhouseRepo.GetByID(ctx, farmhouseID); err != nil {
		if errors.Is(err, farmhouseRepo.ErrFarmhouseNotFound) {
			s.logger.Warn("GetFarmStatistics: farmhouse id=%d not found", farmhouseID)
			return nil, ErrFarmhouseNotFound
		}
		s.logger.Error("GetFarmStatistics: failed to get farmhouse id=%d: %v", farmhouseID, err)
		return nil, fmt.Errorf("%w: GetFarmStatistics - repository error: %v", ErrInternal, err)
	}

	bookings, _, err := s.bookingRepo.ListWithFilter(ctx, domain.BookingsFilter{
		FarmhouseID: &farmhouseID,
	})
	if err != nil {
		s.logger.Error("GetFarmStatistics: repository error for farmhouse=%d: %v", farmhouseID, err)
		return nil, fmt.Errorf("%w: GetFarmStatistics - repository error: %v", ErrInternal, err)
	}

	stats := &models.FarmStatisticsResponse{FarmhouseID: farmhouseID}
	byCategory := make(map[domain.DurationCategory]int64)

	for _, b := range bookings {
		stats.TotalBookings++

		if b.IsCancelled() {
			stats.CancelledCount++
			continue
		}

		s.refreshLifecycle(ctx, b)

		switch b.BookingStatus {
		case domain.BookingUpcoming:
			stats.UpcomingCount++
		case domain.BookingCurrent:
			stats.CurrentCount++
		case domain.BookingExpired:
			stats.ExpiredCount++
		}

		paid, _ := b.PaidAmounts()
		stats.TotalRevenue += b.FinalPrice
		stats.CollectedRevenue += paid
		stats.TotalPersons += int64(b.NumberOfPersons)
		byCategory[b.DurationCategory]++
	}

	categories := make([]models.CategoryCount, 0, len(byCategory))
	for category, count := range byCategory {
		categories = append(categories, models.CategoryCount{
			DurationCategory: string(category),
			Count:            count,
		})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].DurationCategory < categories[j].DurationCategory
	})
	stats.ByCategory = categories

	s.logger.Info("GetFarmStatistics: farmhouse=%d has %d bookings", farmhouseID, stats.TotalBookings)
	return stats, nil
}

// refreshLifecycle лениво пересчитывает статус жизненного цикла на чтении
// Ошибка персиста не срывает чтение - следующий проход sweep-воркера догонит
func (s *Service) refreshLifecycle(ctx context.Context, b *domain.Booking) {
	if b.IsCancelled() {
		return
	}

	now := s.timeProvider.Now()
	if !b.StatusCheckDue(now) {
		return
	}

	changed, err := domain.ApplyLifecycle(b, now)
	if err != nil {
		s.logger.Warn("refreshLifecycle: failed to evaluate booking id=%d: %v", b.ID, err)
		return
	}
	if !changed {
		return
	}

	if err := s.bookingRepo.UpdateLifecycle(ctx, b.ID, b.BookingStatus, b.FarmStatus, b.NextStatusCheckAt); err != nil {
		s.logger.Warn("refreshLifecycle: failed to persist booking id=%d: %v", b.ID, err)
	}
}

// recomputeMostVisited пересчитывает флаг самой посещаемой фермы (best-effort)
func (s *Service) recomputeMostVisited(ctx context.Context) {
	counts, err := s.bookingRepo.CountPerFarmhouse(ctx)
	if err != nil {
		s.logger.Warn("recomputeMostVisited: failed to count bookings per farmhouse: %v", err)
		return
	}
	if len(counts) == 0 {
		return
	}

	top := counts[0]
	for _, c := range counts[1:] {
		if c.Count > top.Count {
			top = c
		}
	}

	if err := s.farmhouseRepo.SetMostVisited(ctx, top.FarmhouseID); err != nil {
		s.logger.Warn("recomputeMostVisited: failed to set most visited farmhouse id=%d: %v", top.FarmhouseID, err)
	}
}
