package domain

import "errors"

var (
	// ErrInvalidDurationCategory возвращается для категории вне закрытого перечисления
	ErrInvalidDurationCategory = errors.New("domain: invalid duration category")

	// ErrInvalidTimeString возвращается при некорректном времени суток "HH:MM"
	ErrInvalidTimeString = errors.New("domain: invalid time string")

	// ErrPriceNotFound возвращается, когда у фермы нет прайс-опции для категории
	ErrPriceNotFound = errors.New("domain: price option not found")

	// ErrCapacityExceeded возвращается, когда число гостей превышает лимит прайс-опции
	ErrCapacityExceeded = errors.New("domain: capacity exceeded")

	// ErrInvalidPartialPayment возвращается при нарушении инвариантов частичной оплаты
	ErrInvalidPartialPayment = errors.New("domain: invalid partial payment")
)
