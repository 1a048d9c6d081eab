package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/FMH-BookingService/internal/domain"
	farmhouseRepo "github.com/m04kA/FMH-BookingService/internal/infra/storage/farmhouse"
	userRepo "github.com/m04kA/FMH-BookingService/internal/infra/storage/user"
	"github.com/m04kA/FMH-BookingService/pkg/ptr"
	"github.com/m04kA/FMH-BookingService/pkg/types"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	farmhouseRepo FarmhouseRepository
	userRepo      UserRepository
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	farmhouseRepo FarmhouseRepository,
	userRepo UserRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		farmhouseRepo: farmhouseRepo,
		userRepo:      userRepo,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка пересечений и вставка выполняются в одной сериализуемой транзакции
// с блокировкой строк фермы (FOR UPDATE) - двойное бронирование невозможно
// даже при конкурентных запросах на один и тот же интервал
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: farmhouse=%d, date=%s, category=%s, persons=%d",
		req.FarmhouseID, req.BookingDate.Format(domain.DateFormat), req.DurationCategory, req.NumberOfPersons)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Категория длительности строго из закрытого набора
	category, err := domain.ParseDurationCategory(req.DurationCategory)
	if err != nil {
		uc.logger.Warn("CreateBooking: unknown duration category %q", req.DurationCategory)
		return nil, fmt.Errorf("%w: %q", ErrInvalidDurationCategory, req.DurationCategory)
	}

	// 3. Получаем текущее время
	now := uc.timeProvider.Now()

	if err := validateDate(req.BookingDate, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// Признак авторизации определяет скидку; явное переопределение
	// из запроса имеет приоритет над наличием аккаунта
	isLoggedIn := req.UserID != nil
	if req.IsLoggedIn != nil {
		isLoggedIn = *req.IsLoggedIn
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Получаем ферму вместе с прайс-опциями
		farmhouse, err := uc.farmhouseRepo.GetByID(txCtx, req.FarmhouseID)
		if err != nil {
			if errors.Is(err, farmhouseRepo.ErrFarmhouseNotFound) {
				uc.logger.Warn("CreateBooking: farmhouse id=%d not found", req.FarmhouseID)
				return ErrFarmhouseNotFound
			}
			uc.logger.Error("CreateBooking: failed to get farmhouse id=%d: %v", req.FarmhouseID, err)
			return fmt.Errorf("%w: failed to get farmhouse: %v", ErrInternal, err)
		}

		if !farmhouse.Status {
			uc.logger.Warn("CreateBooking: farmhouse id=%d is inactive", req.FarmhouseID)
			return ErrFarmhouseInactive
		}

		// 4.2. Цена: явное ненулевое переопределение из запроса, иначе
		// прайс-опция по категории с проверкой вместимости
		var price float64
		if req.OriginalPrice != nil && *req.OriginalPrice > 0 {
			price = *req.OriginalPrice
		} else {
			price, err = farmhouse.ResolvePrice(category, req.NumberOfPersons)
			if err != nil {
				if errors.Is(err, domain.ErrPriceNotFound) {
					uc.logger.Warn("CreateBooking: no price option for category %s on farmhouse id=%d",
						category, req.FarmhouseID)
					return fmt.Errorf("%w: %v", ErrPriceNotFound, err)
				}
				if errors.Is(err, domain.ErrCapacityExceeded) {
					uc.logger.Warn("CreateBooking: capacity exceeded for farmhouse id=%d: %v", req.FarmhouseID, err)
					return fmt.Errorf("%w: %v", ErrCapacityExceeded, err)
				}
				uc.logger.Error("CreateBooking: failed to resolve price: %v", err)
				return fmt.Errorf("%w: failed to resolve price: %v", ErrInternal, err)
			}
		}

		// 4.3. Скидка только для авторизованных пользователей
		discount := domain.ComputeDiscount(price, isLoggedIn)
		finalPrice := price - discount

		// 4.4. Вычисляем интервал занятости [заезд, выезд)
		checkIn, err := domain.DeriveCheckIn(req.BookingDate, farmhouse.CheckInDefault(), req.CheckInTime)
		if err != nil {
			uc.logger.Warn("CreateBooking: failed to derive check-in: %v", err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		checkOut, err := domain.DeriveCheckOut(checkIn, category, farmhouse.CheckOutDefault())
		if err != nil {
			uc.logger.Warn("CreateBooking: failed to derive check-out: %v", err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		requested := domain.Interval{CheckIn: checkIn, CheckOut: checkOut}

		// 4.5. Получаем бронирования фермы с блокировкой (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetByFarmhouse(txCtx, req.FarmhouseID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings for farmhouse id=%d: %v", req.FarmhouseID, err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 4.6. Проверяем пересечение интервалов
		conflict, err := findOverlapping(requested, bookings)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check overlaps: %v", err)
			return fmt.Errorf("%w: failed to check overlaps: %v", ErrInternal, err)
		}
		if conflict != nil {
			uc.logger.Warn("CreateBooking: farmhouse id=%d already booked, conflicting booking id=%d",
				req.FarmhouseID, conflict.ID)
			return ErrDatesOverlap
		}

		// 4.7. Определяем пользователя: аккаунт или гостевая запись
		bookingUser, err := uc.resolveUser(txCtx, req)
		if err != nil {
			return err
		}

		// 4.8. Платёжные поля на момент создания
		paymentStatus, partialPaid, remaining, err := uc.resolvePayment(req, finalPrice)
		if err != nil {
			uc.logger.Warn("CreateBooking: payment validation failed: %v", err)
			return err
		}

		// 4.9. Начальный статус жизненного цикла
		bookingStatus := domain.EvaluateLifecycle(checkIn, checkOut, now)
		farmStatus := domain.FarmAvailable
		if bookingStatus == domain.BookingCurrent {
			farmStatus = domain.FarmUnavailable
		}
		nextCheck := domain.NextStatusCheck(bookingStatus, checkIn, checkOut)

		history := domain.PaymentHistory{}.Append(domain.PaymentEvent{
			ToStatus:  paymentStatus,
			Amount:    partialPaid,
			Remaining: remaining,
			At:        now,
		})

		newBooking := &domain.Booking{
			InvoiceToken:      generateInvoiceToken(now),
			UserID:            ptr.Ptr(bookingUser.ID),
			FarmhouseID:       req.FarmhouseID,
			CustomerName:      req.CustomerName,
			CustomerMobile:    req.CustomerMobile,
			CustomerEmail:     req.CustomerEmail,
			BookingDate:       checkIn,
			BookingEndDate:    ptr.Ptr(checkOut),
			BookingTimeFrom:   types.NewTimeString(checkIn),
			BookingTimeTo:     types.NewTimeString(checkOut),
			BookingHours:      category.Hours(),
			NumberOfPersons:   req.NumberOfPersons,
			DurationCategory:  category,
			OriginalPrice:     price,
			DiscountAmount:    discount,
			FinalPrice:        finalPrice,
			IsLoggedIn:        isLoggedIn,
			PaymentStatus:     paymentStatus,
			FarmStatus:        farmStatus,
			BookingStatus:     bookingStatus,
			NextStatusCheckAt: nextCheck,
			PartialPaidAmount: partialPaid,
			RemainingAmount:   remaining,
			PaymentHistory:    history,
		}

		// 4.10. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, newBooking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, invoice=%s",
		result.ID, result.InvoiceToken)

	// 5. Пост-обработка вне транзакции: история пользователя и пересчёт
	// самой посещаемой фермы. Ошибки здесь не откатывают бронирование.
	uc.appendUserHistory(ctx, result, now)
	uc.recomputeMostVisited(ctx)

	return toResponse(result), nil
}

// resolveUser находит пользователя по ID, либо подбирает/создаёт гостевую
// запись по контактным данным
func (uc *UseCase) resolveUser(ctx context.Context, req *Request) (*domain.User, error) {
	if req.UserID != nil {
		u, err := uc.userRepo.GetByID(ctx, *req.UserID)
		if err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				uc.logger.Warn("CreateBooking: user id=%d not found", *req.UserID)
				return nil, ErrUserNotFound
			}
			uc.logger.Error("CreateBooking: failed to get user id=%d: %v", *req.UserID, err)
			return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
		}
		return u, nil
	}

	// Гость: сначала ищем существующую запись по телефону, затем по email
	hasMobile := req.CustomerMobile != nil && *req.CustomerMobile != ""
	hasEmail := req.CustomerEmail != nil && *req.CustomerEmail != ""

	if hasMobile {
		existing, err := uc.userRepo.GetByMobile(ctx, *req.CustomerMobile)
		if err == nil {
			uc.backfillGuestName(ctx, existing, req)
			return existing, nil
		}
		if !errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Error("CreateBooking: failed to find user by mobile: %v", err)
			return nil, fmt.Errorf("%w: failed to find user by mobile: %v", ErrInternal, err)
		}
	}

	if hasEmail {
		existing, err := uc.userRepo.GetByEmail(ctx, *req.CustomerEmail)
		if err == nil {
			uc.backfillGuestName(ctx, existing, req)
			return existing, nil
		}
		if !errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Error("CreateBooking: failed to find user by email: %v", err)
			return nil, fmt.Errorf("%w: failed to find user by email: %v", ErrInternal, err)
		}
	}

	guest := &domain.User{
		Name:      *req.CustomerName,
		LoginType: "phone",
	}
	if hasMobile {
		guest.MobileNo = *req.CustomerMobile
	} else {
		// Гость без телефона идентифицируется по email
		guest.LoginType = "google"
	}
	if hasEmail {
		guest.Email = *req.CustomerEmail
	}

	created, err := uc.userRepo.Create(ctx, guest)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create guest user: %v", err)
		return nil, fmt.Errorf("%w: failed to create guest user: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: created guest user id=%d", created.ID)
	return created, nil
}

// backfillGuestName дозаполняет пустое имя у найденной гостевой записи (best-effort)
func (uc *UseCase) backfillGuestName(ctx context.Context, u *domain.User, req *Request) {
	if u.Name != "" || req.CustomerName == nil || *req.CustomerName == "" {
		return
	}

	if err := uc.userRepo.UpdateName(ctx, u.ID, *req.CustomerName); err != nil {
		uc.logger.Warn("CreateBooking: failed to backfill name for user id=%d: %v", u.ID, err)
		return
	}
	u.Name = *req.CustomerName
}

// resolvePayment валидирует платёжные поля запроса и возвращает
// (статус, оплачено, остаток)
func (uc *UseCase) resolvePayment(req *Request, finalPrice float64) (domain.PaymentStatus, *float64, *float64, error) {
	status := domain.PaymentIncomplete
	if req.PaymentStatus != nil {
		status = domain.PaymentStatus(*req.PaymentStatus)
	}

	switch status {
	case domain.PaymentPartial:
		remaining, err := domain.ValidatePartialPayment(finalPrice, *req.PartialPaidAmount, nil)
		if err != nil {
			return "", nil, nil, fmt.Errorf("%w: %v", ErrInvalidPartialPayment, err)
		}
		return status, req.PartialPaidAmount, ptr.Ptr(remaining), nil
	case domain.PaymentPaid:
		return status, nil, ptr.Ptr(0.0), nil
	default:
		return domain.PaymentIncomplete, nil, nil, nil
	}
}

// appendUserHistory дописывает запись в историю бронирований пользователя (best-effort)
func (uc *UseCase) appendUserHistory(ctx context.Context, b *domain.Booking, now time.Time) {
	if b.UserID == nil {
		return
	}

	entry := domain.UserBookingEntry{
		FarmhouseID:      b.FarmhouseID,
		BookingDate:      b.BookingDate.Format(domain.DateFormat),
		DurationCategory: b.DurationCategory,
		Rent:             b.FinalPrice,
		BookedAt:         now,
	}

	if err := uc.userRepo.AppendBookingHistory(ctx, *b.UserID, entry); err != nil {
		uc.logger.Warn("CreateBooking: failed to append booking history for user id=%d: %v", *b.UserID, err)
	}
}

// recomputeMostVisited пересчитывает флаг самой посещаемой фермы одним
// GROUP BY запросом (best-effort)
func (uc *UseCase) recomputeMostVisited(ctx context.Context) {
	counts, err := uc.bookingRepo.CountPerFarmhouse(ctx)
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to count bookings per farmhouse: %v", err)
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

	if err := uc.farmhouseRepo.SetMostVisited(ctx, top.FarmhouseID); err != nil {
		uc.logger.Warn("CreateBooking: failed to set most visited farmhouse id=%d: %v", top.FarmhouseID, err)
	}
}

// generateInvoiceToken создаёт публичный токен инвойса вида INV-<unix-ms>-<случайный фрагмент>
func generateInvoiceToken(now time.Time) string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("INV-%d-%s", now.UnixMilli(), fragment)
}
