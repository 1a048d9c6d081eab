package update_payment_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/FMH-BookingService/internal/api/handlers"
	updatePaymentStatus "github.com/m04kA/FMH-BookingService/internal/usecase/update_payment_status"
)

const (
	msgInvalidBookingID      = "некорректный ID бронирования"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgBookingNotFound       = "бронирование не найдено"
	msgBookingCancelled      = "бронирование отменено, изменение оплаты невозможно"
	msgInvalidStatus         = "некорректный платёжный статус"
	msgInvalidPartialPayment = "некорректная сумма частичной оплаты"
)

type Handler struct {
	useCase UpdatePaymentStatusUseCase
	logger  Logger
}

func NewHandler(useCase UpdatePaymentStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/payment-status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("PATCH /bookings/{bookingId}/payment-status - Invalid booking ID: %s", vars["bookingId"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdatePaymentStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{bookingId}/payment-status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID))
	if err != nil {
		switch {
		case errors.Is(err, updatePaymentStatus.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{bookingId}/payment-status - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, updatePaymentStatus.ErrBookingCancelled):
			h.logger.Warn("PATCH /bookings/{bookingId}/payment-status - Booking cancelled: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgBookingCancelled)

		case errors.Is(err, updatePaymentStatus.ErrInvalidStatus):
			h.logger.Warn("PATCH /bookings/{bookingId}/payment-status - Invalid status: booking_id=%d, status=%s",
				bookingID, req.PaymentStatus)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, updatePaymentStatus.ErrInvalidPartialPayment):
			h.logger.Warn("PATCH /bookings/{bookingId}/payment-status - Invalid partial payment: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidPartialPayment)

		case errors.Is(err, updatePaymentStatus.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{bookingId}/payment-status - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /bookings/{bookingId}/payment-status - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{bookingId}/payment-status - Payment status updated: booking_id=%d, status=%s",
		bookingID, result.PaymentStatus)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
