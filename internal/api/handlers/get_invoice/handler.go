package get_invoice

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/FMH-BookingService/internal/api/handlers"
	"github.com/m04kA/FMH-BookingService/internal/service/bookings"
)

const (
	msgInvalidToken    = "некорректный invoice-токен"
	msgInvoiceNotFound = "инвойс не найден"
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

// Handle GET /api/v1/bookings/invoice/{token}
// Публичный эндпоинт: сам токен является правом доступа к инвойсу
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	token := vars["token"]
	if token == "" {
		handlers.RespondBadRequest(w, msgInvalidToken)
		return
	}

	result, err := h.service.GetByInvoiceToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvoiceNotFound):
			h.logger.Warn("GET /bookings/invoice/{token} - Invoice not found: token=%s", token)
			handlers.RespondNotFound(w, msgInvoiceNotFound)
		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidToken)
		default:
			h.logger.Error("GET /bookings/invoice/{token} - Failed to get invoice: token=%s, error=%v", token, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
