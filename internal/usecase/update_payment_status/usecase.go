package update_payment_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/FMH-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/FMH-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/FMH-BookingService/pkg/ptr"
)

// UseCase use case для смены платёжного статуса бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case смены платёжного статуса
// Чтение ledger-истории и запись нового события выполняются в одной
// сериализуемой транзакции - конкурентные обновления не теряют записей
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdatePaymentStatus: booking=%d, status=%s", req.BookingID, req.PaymentStatus)

	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	newStatus := domain.PaymentStatus(req.PaymentStatus)
	if !newStatus.IsValid() {
		uc.logger.Warn("UpdatePaymentStatus: unknown payment status %q", req.PaymentStatus)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.PaymentStatus)
	}

	if newStatus == domain.PaymentPartial && req.PartialPaidAmount == nil {
		return nil, fmt.Errorf("%w: partialPaidAmount is required for partial payment", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	now := uc.timeProvider.Now()

	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("UpdatePaymentStatus: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("UpdatePaymentStatus: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// Отменённое бронирование - терминальное платёжное состояние
		if booking.IsCancelled() {
			uc.logger.Warn("UpdatePaymentStatus: booking id=%d is cancelled", req.BookingID)
			return ErrBookingCancelled
		}

		// Ленивый пересчёт жизненного цикла до платёжных side-effect'ов:
		// оплата просроченной брони не должна повторно занимать ферму
		if booking.StatusCheckDue(now) {
			changed, err := domain.ApplyLifecycle(booking, now)
			if err != nil {
				uc.logger.Warn("UpdatePaymentStatus: failed to evaluate lifecycle for booking id=%d: %v", booking.ID, err)
			} else if changed {
				if err := uc.bookingRepo.UpdateLifecycle(txCtx, booking.ID, booking.BookingStatus, booking.FarmStatus, booking.NextStatusCheckAt); err != nil {
					uc.logger.Error("UpdatePaymentStatus: failed to persist lifecycle for booking id=%d: %v", booking.ID, err)
					return fmt.Errorf("%w: failed to persist lifecycle: %v", ErrInternal, err)
				}
			}
		}

		oldStatus := booking.PaymentStatus

		var partialPaid, remaining *float64

		switch newStatus {
		case domain.PaymentPartial:
			remainingAmount, err := domain.ValidatePartialPayment(booking.FinalPrice, *req.PartialPaidAmount, req.RemainingAmount)
			if err != nil {
				uc.logger.Warn("UpdatePaymentStatus: partial payment validation failed: %v", err)
				return fmt.Errorf("%w: %v", ErrInvalidPartialPayment, err)
			}
			partialPaid = req.PartialPaidAmount
			remaining = ptr.Ptr(remainingAmount)
		case domain.PaymentPaid:
			remaining = ptr.Ptr(0.0)
		default:
			// incomplete и cancel обнуляют частичную оплату
		}

		// Ферма освобождается при отмене и занимается при поступлении
		// оплаты; завершённую бронь оплата фермой не занимает
		farmStatus := booking.FarmStatus
		switch newStatus {
		case domain.PaymentCancel:
			farmStatus = domain.FarmAvailable
		case domain.PaymentPaid, domain.PaymentPartial:
			if booking.BookingStatus != domain.BookingExpired {
				farmStatus = domain.FarmUnavailable
			}
		}

		history := booking.PaymentHistory.Append(domain.PaymentEvent{
			FromStatus: oldStatus,
			ToStatus:   newStatus,
			Amount:     partialPaid,
			Remaining:  remaining,
			Notes:      req.Notes,
			At:         now,
		})

		if err := uc.bookingRepo.UpdatePayment(txCtx, req.BookingID, newStatus, farmStatus, partialPaid, remaining, history); err != nil {
			uc.logger.Error("UpdatePaymentStatus: failed to update booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to update payment: %v", ErrInternal, err)
		}

		booking.PaymentStatus = newStatus
		booking.FarmStatus = farmStatus
		booking.PartialPaidAmount = partialPaid
		booking.RemainingAmount = remaining
		booking.PaymentHistory = history
		booking.UpdatedAt = now

		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdatePaymentStatus: booking id=%d moved to %s", result.ID, result.PaymentStatus)

	return &Response{
		ID:                result.ID,
		InvoiceToken:      result.InvoiceToken,
		PaymentStatus:     string(result.PaymentStatus),
		FarmStatus:        string(result.FarmStatus),
		FinalPrice:        result.FinalPrice,
		PartialPaidAmount: result.PartialPaidAmount,
		RemainingAmount:   result.RemainingAmount,
		PaymentHistory:    result.PaymentHistory,
		UpdatedAt:         result.UpdatedAt,
	}, nil
}
