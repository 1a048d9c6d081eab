package get_available_farms

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/FMH-BookingService/internal/api/handlers"
	"github.com/m04kA/FMH-BookingService/internal/domain"
	getAvailableFarms "github.com/m04kA/FMH-BookingService/internal/usecase/get_available_farms"
	"github.com/m04kA/FMH-BookingService/pkg/ptr"
)

const (
	msgMissingDate     = "параметр date обязателен, ожидается YYYY-MM-DD"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidCategory = "неизвестная категория длительности"
	msgInvalidPersons  = "некорректное число гостей"
)

type Handler struct {
	useCase GetAvailableFarmsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableFarmsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/available-farms
// Query-параметры: date (обязательный), durationCategory, numberOfPersons
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	rawDate := query.Get("date")
	if rawDate == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, rawDate)
	if err != nil {
		h.logger.Warn("GET /bookings/available-farms - Invalid date: %s", rawDate)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &getAvailableFarms.Request{Date: date}

	if raw := query.Get("durationCategory"); raw != "" {
		req.DurationCategory = ptr.Ptr(raw)
	}

	if raw := query.Get("numberOfPersons"); raw != "" {
		persons, err := strconv.Atoi(raw)
		if err != nil || persons < 1 {
			handlers.RespondBadRequest(w, msgInvalidPersons)
			return
		}
		req.NumberOfPersons = ptr.Ptr(persons)
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableFarms.ErrInvalidDurationCategory):
			h.logger.Warn("GET /bookings/available-farms - Invalid category: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCategory)
		case errors.Is(err, getAvailableFarms.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDate)
		default:
			h.logger.Error("GET /bookings/available-farms - Failed: date=%s, error=%v", rawDate, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
