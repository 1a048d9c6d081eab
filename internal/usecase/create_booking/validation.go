package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/FMH-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.FarmhouseID <= 0 {
		return fmt.Errorf("%w: farmhouseID must be positive", ErrInvalidInput)
	}

	if req.UserID != nil && *req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.BookingDate.IsZero() {
		return fmt.Errorf("%w: bookingDate is required", ErrInvalidInput)
	}

	if req.NumberOfPersons < domain.MinNumberOfPersons {
		return fmt.Errorf("%w: numberOfPersons must be at least %d", ErrInvalidInput, domain.MinNumberOfPersons)
	}

	// Для гостя без аккаунта обязательны имя и хотя бы один контакт
	if req.UserID == nil {
		if req.CustomerName == nil || *req.CustomerName == "" {
			return fmt.Errorf("%w: customerName is required for guest bookings", ErrInvalidInput)
		}
		hasMobile := req.CustomerMobile != nil && *req.CustomerMobile != ""
		hasEmail := req.CustomerEmail != nil && *req.CustomerEmail != ""
		if !hasMobile && !hasEmail {
			return fmt.Errorf("%w: customerMobile or customerEmail is required for guest bookings", ErrInvalidInput)
		}
	}

	if req.OriginalPrice != nil && *req.OriginalPrice < 0 {
		return fmt.Errorf("%w: originalPrice must not be negative", ErrInvalidInput)
	}

	if req.CheckInTime != nil {
		if err := req.CheckInTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid checkInTime format: %v", ErrInvalidInput, err)
		}
	}

	if req.PaymentStatus != nil {
		status := domain.PaymentStatus(*req.PaymentStatus)
		if !status.IsValid() || status == domain.PaymentCancel {
			return fmt.Errorf("%w: paymentStatus must be one of incomplete, partial, paid", ErrInvalidInput)
		}
		if status == domain.PaymentPartial && req.PartialPaidAmount == nil {
			return fmt.Errorf("%w: partialPaidAmount is required for partial payment", ErrInvalidInput)
		}
	}

	return nil
}

// validateDate проверяет, что дата заезда не в прошлом
func validateDate(bookingDate, now time.Time) error {
	dateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, bookingDate.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if dateOnly.Before(nowOnly) {
		return fmt.Errorf("%w: booking date is in the past", ErrInvalidDate)
	}
	return nil
}

// findOverlapping ищет существующее бронирование, чей интервал занятости
// пересекается с запрошенным. Полуоткрытые интервалы: выезд в 10:00 и
// заезд в 10:00 того же дня не считаются пересечением.
func findOverlapping(requested domain.Interval, bookings []*domain.Booking) (*domain.Booking, error) {
	for _, b := range bookings {
		if !b.BlocksAvailability() {
			continue
		}
		interval, err := b.Interval()
		if err != nil {
			// Не можем восстановить интервал - считаем бронирование блокирующим,
			// чтобы не допустить двойного бронирования из-за битых данных
			return b, nil
		}
		if requested.Overlaps(interval) {
			return b, nil
		}
	}
	return nil, nil
}
