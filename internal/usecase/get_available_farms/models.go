package get_available_farms

import "time"

// Request модель запроса доступных ферм на дату
type Request struct {
	Date             time.Time // Дата заезда (без времени)
	DurationCategory *string   // Категория длительности (опционально)
	NumberOfPersons  *int      // Число гостей (опционально, фильтрует по вместимости)
}

// FarmAvailability доступность одной фермы на запрошенную дату
type FarmAvailability struct {
	FarmhouseID   int64
	Name          string
	Slug          string
	MaxPersons    int
	Bedrooms      int
	IsMostVisited bool
	Available     bool
	Price         *float64 // цена для запрошенной категории, если указана
}

// Response модель ответа со списком ферм
type Response struct {
	Date  time.Time
	Farms []FarmAvailability
}
