package get_available_farms

import "errors"

var (
	// ErrInvalidDurationCategory возвращается при неизвестной категории длительности
	ErrInvalidDurationCategory = errors.New("get_available_farms: invalid duration category")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_farms: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_farms: internal error")
)
