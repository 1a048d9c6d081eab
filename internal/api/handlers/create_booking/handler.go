package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/FMH-BookingService/internal/api/handlers"
	"github.com/m04kA/FMH-BookingService/internal/api/middleware"
	createBooking "github.com/m04kA/FMH-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/FMH-BookingService/pkg/ptr"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDate           = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgFarmhouseNotFound     = "ферма не найдена"
	msgFarmhouseInactive     = "ферма недоступна для бронирования"
	msgDatesOverlap          = "ферма уже забронирована на выбранные даты"
	msgInvalidCategory       = "неизвестная категория длительности"
	msgPriceNotFound         = "для выбранной категории нет прайс-опции"
	msgCapacityExceeded      = "число гостей превышает допустимый максимум"
	msgInvalidBookingDate    = "некорректная дата бронирования"
	msgUserNotFound          = "пользователь не найден"
	msgInvalidPartialPayment = "некорректная сумма частичной оплаты"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Авторизация опциональна: без X-User-ID бронирование оформляется как гостевое
	var userID *int64
	if id, ok := middleware.UserIDFromContext(r.Context()); ok {
		userID = ptr.Ptr(id)
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrDatesOverlap):
			h.logger.Warn("POST /bookings - Dates overlap: farmhouse_id=%d, date=%s", req.FarmhouseID, req.BookingDate)
			handlers.RespondError(w, http.StatusConflict, msgDatesOverlap)

		case errors.Is(err, createBooking.ErrFarmhouseNotFound):
			h.logger.Warn("POST /bookings - Farmhouse not found: farmhouse_id=%d", req.FarmhouseID)
			handlers.RespondNotFound(w, msgFarmhouseNotFound)

		case errors.Is(err, createBooking.ErrFarmhouseInactive):
			h.logger.Warn("POST /bookings - Farmhouse inactive: farmhouse_id=%d", req.FarmhouseID)
			handlers.RespondError(w, http.StatusConflict, msgFarmhouseInactive)

		case errors.Is(err, createBooking.ErrUserNotFound):
			h.logger.Warn("POST /bookings - User not found")
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, createBooking.ErrInvalidDurationCategory):
			h.logger.Warn("POST /bookings - Invalid duration category: %s", req.DurationCategory)
			handlers.RespondBadRequest(w, msgInvalidCategory)

		case errors.Is(err, createBooking.ErrPriceNotFound):
			h.logger.Warn("POST /bookings - Price not found: farmhouse_id=%d, category=%s",
				req.FarmhouseID, req.DurationCategory)
			handlers.RespondBadRequest(w, msgPriceNotFound)

		case errors.Is(err, createBooking.ErrCapacityExceeded):
			h.logger.Warn("POST /bookings - Capacity exceeded: farmhouse_id=%d, persons=%d",
				req.FarmhouseID, req.NumberOfPersons)
			handlers.RespondBadRequest(w, msgCapacityExceeded)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: %s", req.BookingDate)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrInvalidPartialPayment):
			h.logger.Warn("POST /bookings - Invalid partial payment: farmhouse_id=%d", req.FarmhouseID)
			handlers.RespondBadRequest(w, msgInvalidPartialPayment)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: farmhouse_id=%d, error=%v",
				req.FarmhouseID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, invoice=%s, farmhouse_id=%d",
		result.ID, result.InvoiceToken, req.FarmhouseID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
