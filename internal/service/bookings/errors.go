package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrFarmhouseNotFound возвращается, когда ферма не найдена
	ErrFarmhouseNotFound = errors.New("farmhouse not found")

	// ErrInvoiceNotFound возвращается, когда инвойс не найден по токену
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrDatesOverlap возвращается, когда изменённый интервал пересекается с другим бронированием
	ErrDatesOverlap = errors.New("farmhouse is already booked for these dates")

	// ErrInvalidDurationCategory возвращается при неизвестной категории длительности
	ErrInvalidDurationCategory = errors.New("invalid duration category")

	// ErrPriceNotFound возвращается, когда у фермы нет прайс-опции для категории
	ErrPriceNotFound = errors.New("no price option for this duration category")

	// ErrCapacityExceeded возвращается, когда число гостей превышает лимит прайс-опции
	ErrCapacityExceeded = errors.New("number of persons exceeds the allowed maximum")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
