package farmhouse

import "errors"

var (
	// ErrFarmhouseNotFound возвращается, когда ферма не найдена
	ErrFarmhouseNotFound = errors.New("farmhouse.repository: farmhouse not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("farmhouse.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("farmhouse.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("farmhouse.repository: failed to scan row")
)
