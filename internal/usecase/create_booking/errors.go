package create_booking

import "errors"

var (
	// ErrFarmhouseNotFound возвращается, когда ферма не найдена
	ErrFarmhouseNotFound = errors.New("create_booking: farmhouse not found")

	// ErrFarmhouseInactive возвращается, когда ферма отключена и недоступна для бронирования
	ErrFarmhouseInactive = errors.New("create_booking: farmhouse is inactive")

	// ErrInvalidDurationCategory возвращается при неизвестной категории длительности
	ErrInvalidDurationCategory = errors.New("create_booking: invalid duration category")

	// ErrPriceNotFound возвращается, когда у фермы нет прайс-опции для категории
	ErrPriceNotFound = errors.New("create_booking: no price option for this duration category")

	// ErrCapacityExceeded возвращается, когда число гостей превышает лимит прайс-опции
	ErrCapacityExceeded = errors.New("create_booking: number of persons exceeds the allowed maximum")

	// ErrDatesOverlap возвращается, когда запрошенный интервал пересекается с существующим бронированием
	ErrDatesOverlap = errors.New("create_booking: farmhouse is already booked for these dates")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrUserNotFound возвращается, когда переданный userID не существует
	ErrUserNotFound = errors.New("create_booking: user not found")

	// ErrInvalidPartialPayment возвращается при нарушении инварианта частичной оплаты
	ErrInvalidPartialPayment = errors.New("create_booking: invalid partial payment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
