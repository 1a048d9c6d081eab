package get_available_farms

import (
	"github.com/m04kA/FMH-BookingService/internal/domain"
	getAvailableFarms "github.com/m04kA/FMH-BookingService/internal/usecase/get_available_farms"
)

// FarmAvailabilityResponse HTTP модель доступности одной фермы
type FarmAvailabilityResponse struct {
	FarmhouseID   int64    `json:"farmhouseId"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	MaxPersons    int      `json:"maxPersons"`
	Bedrooms      int      `json:"bedrooms"`
	IsMostVisited bool     `json:"isMostVisited"`
	Available     bool     `json:"available"`
	Price         *float64 `json:"price,omitempty"`
}

// AvailableFarmsResponse HTTP модель списка ферм на дату
type AvailableFarmsResponse struct {
	Date  string                     `json:"date"`
	Farms []FarmAvailabilityResponse `json:"farms"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableFarms.Response) *AvailableFarmsResponse {
	farms := make([]FarmAvailabilityResponse, 0, len(resp.Farms))
	for _, farm := range resp.Farms {
		farms = append(farms, FarmAvailabilityResponse{
			FarmhouseID:   farm.FarmhouseID,
			Name:          farm.Name,
			Slug:          farm.Slug,
			MaxPersons:    farm.MaxPersons,
			Bedrooms:      farm.Bedrooms,
			IsMostVisited: farm.IsMostVisited,
			Available:     farm.Available,
			Price:         farm.Price,
		})
	}

	return &AvailableFarmsResponse{
		Date:  resp.Date.Format(domain.DateFormat),
		Farms: farms,
	}
}
