package get_user_orders

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/FMH-BookingService/internal/api/handlers"
	"github.com/m04kA/FMH-BookingService/internal/api/middleware"
	"github.com/m04kA/FMH-BookingService/internal/service/bookings"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgAccessDenied  = "доступ запрещён"
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

// Handle GET /api/v1/bookings/user/{userId}
// Пользователь видит только свою историю заказов
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil || userID <= 0 {
		h.logger.Warn("GET /bookings/user/{userId} - Invalid user ID: %s", vars["userId"])
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	authUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok || authUserID != userID {
		h.logger.Warn("GET /bookings/user/{userId} - Access denied: auth_user=%d, requested_user=%d",
			authUserID, userID)
		handlers.RespondError(w, http.StatusForbidden, msgAccessDenied)
		return
	}

	result, err := h.service.GetUserOrders(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidUserID)
		default:
			h.logger.Error("GET /bookings/user/{userId} - Failed to get orders: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
