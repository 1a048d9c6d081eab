package get_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/FMH-BookingService/internal/api/handlers"
	"github.com/m04kA/FMH-BookingService/internal/domain"
	"github.com/m04kA/FMH-BookingService/internal/service/bookings"
	"github.com/m04kA/FMH-BookingService/internal/service/bookings/models"
	"github.com/m04kA/FMH-BookingService/pkg/ptr"
)

const (
	msgInvalidQuery = "некорректные параметры фильтрации"
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

// Handle GET /api/v1/bookings
// Поддерживаемые query-параметры: farmhouseId, userId, paymentStatus,
// dateFrom, dateTo (YYYY-MM-DD), page, perPage
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := parseQuery(r)
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.service.FindAll(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)
		default:
			h.logger.Error("GET /bookings - Failed to list bookings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func parseQuery(r *http.Request) (*models.FindAllRequest, error) {
	query := r.URL.Query()
	req := &models.FindAllRequest{}

	if raw := query.Get("farmhouseId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, errors.New("invalid farmhouseId")
		}
		req.FarmhouseID = ptr.Ptr(id)
	}

	if raw := query.Get("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, errors.New("invalid userId")
		}
		req.UserID = ptr.Ptr(id)
	}

	if raw := query.Get("paymentStatus"); raw != "" {
		req.PaymentStatus = ptr.Ptr(raw)
	}

	if raw := query.Get("dateFrom"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, errors.New("invalid dateFrom")
		}
		req.DateFrom = ptr.Ptr(date)
	}

	if raw := query.Get("dateTo"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, errors.New("invalid dateTo")
		}
		req.DateTo = ptr.Ptr(date)
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, errors.New("invalid page")
		}
		req.Page = page
	}

	if raw := query.Get("perPage"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 {
			return nil, errors.New("invalid perPage")
		}
		req.PerPage = perPage
	}

	return req, nil
}
