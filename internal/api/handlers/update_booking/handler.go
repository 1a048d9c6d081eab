package update_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/FMH-BookingService/internal/api/handlers"
	"github.com/m04kA/FMH-BookingService/internal/service/bookings"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgBookingNotFound    = "бронирование не найдено"
	msgDatesOverlap       = "ферма уже забронирована на выбранные даты"
	msgInvalidCategory    = "неизвестная категория длительности"
	msgPriceNotFound      = "для выбранной категории нет прайс-опции"
	msgCapacityExceeded   = "число гостей превышает допустимый максимум"
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

// Handle PATCH /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("PATCH /bookings/{bookingId} - Invalid booking ID: %s", vars["bookingId"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{bookingId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PATCH /bookings/{bookingId} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.Update(r.Context(), bookingID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{bookingId} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrDatesOverlap):
			h.logger.Warn("PATCH /bookings/{bookingId} - Dates overlap: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgDatesOverlap)

		case errors.Is(err, bookings.ErrInvalidDurationCategory):
			h.logger.Warn("PATCH /bookings/{bookingId} - Invalid category: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidCategory)

		case errors.Is(err, bookings.ErrPriceNotFound):
			h.logger.Warn("PATCH /bookings/{bookingId} - Price not found: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgPriceNotFound)

		case errors.Is(err, bookings.ErrCapacityExceeded):
			h.logger.Warn("PATCH /bookings/{bookingId} - Capacity exceeded: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgCapacityExceeded)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{bookingId} - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /bookings/{bookingId} - Failed to update booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{bookingId} - Booking updated successfully: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
