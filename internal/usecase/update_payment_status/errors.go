package update_payment_status

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_payment_status: booking not found")

	// ErrBookingCancelled возвращается при попытке изменить оплату отменённого бронирования
	ErrBookingCancelled = errors.New("update_payment_status: booking is cancelled")

	// ErrInvalidStatus возвращается при неизвестном платёжном статусе
	ErrInvalidStatus = errors.New("update_payment_status: invalid payment status")

	// ErrInvalidPartialPayment возвращается при нарушении инварианта частичной оплаты
	ErrInvalidPartialPayment = errors.New("update_payment_status: invalid partial payment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_payment_status: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_payment_status: internal error")
)
