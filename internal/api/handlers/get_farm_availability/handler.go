package get_farm_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/FMH-BookingService/internal/api/handlers"
	"github.com/m04kA/FMH-BookingService/internal/service/bookings"
)

const (
	msgInvalidFarmhouseID = "некорректный ID фермы"
	msgFarmhouseNotFound  = "ферма не найдена"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/farm/{farmhouseId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	farmhouseID, err := strconv.ParseInt(vars["farmhouseId"], 10, 64)
	if err != nil || farmhouseID <= 0 {
		h.logger.Warn("GET /bookings/farm/{farmhouseId}/availability - Invalid farmhouse ID: %s", vars["farmhouseId"])
		handlers.RespondBadRequest(w, msgInvalidFarmhouseID)
		return
	}

	result, err := h.service.GetFarmAvailability(r.Context(), farmhouseID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrFarmhouseNotFound):
			h.logger.Warn("GET /bookings/farm/{farmhouseId}/availability - Farmhouse not found: farmhouse_id=%d", farmhouseID)
			handlers.RespondNotFound(w, msgFarmhouseNotFound)
		default:
			h.logger.Error("GET /bookings/farm/{farmhouseId}/availability - Failed: farmhouse_id=%d, error=%v", farmhouseID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
