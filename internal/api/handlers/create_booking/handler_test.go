package create_booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/FMH-BookingService/internal/api/middleware"
	createBooking "github.com/m04kA/FMH-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/FMH-BookingService/pkg/ptr"
)

type fakeUseCase struct {
	gotReq *createBooking.Request
	resp   *createBooking.Response
	err    error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func usecaseResponse() *createBooking.Response {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	return &createBooking.Response{
		ID:               101,
		InvoiceToken:     "INV-1772366400000-A1B2C3D4",
		UserID:           ptr.Ptr(int64(42)),
		FarmhouseID:      7,
		BookingDate:      time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC),
		BookingEndDate:   ptr.Ptr(time.Date(2026, time.March, 10, 22, 0, 0, 0, time.UTC)),
		BookingTimeFrom:  "10:00",
		BookingTimeTo:    "22:00",
		BookingHours:     12,
		NumberOfPersons:  4,
		DurationCategory: "REGULAR_12HR",
		OriginalPrice:    4800,
		DiscountAmount:   200,
		FinalPrice:       4600,
		IsLoggedIn:       true,
		PaymentStatus:    "incomplete",
		FarmStatus:       "available",
		BookingStatus:    "upcoming",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"farmhouseId":      7,
		"bookingDate":      "2026-03-10",
		"durationCategory": "REGULAR_12HR",
		"numberOfPersons":  4,
	}
}

func doRequest(t *testing.T, uc *fakeUseCase, body interface{}, userID string) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(raw))
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()

	handler := NewHandler(uc, nopLogger{})
	middleware.OptionalAuth(http.HandlerFunc(handler.Handle)).ServeHTTP(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{resp: usecaseResponse()}

	rec := doRequest(t, uc, validBody(), "42")

	assert.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, uc.gotReq)
	require.NotNil(t, uc.gotReq.UserID, "user id from the auth header reaches the use case")
	assert.Equal(t, int64(42), *uc.gotReq.UserID)
	assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), uc.gotReq.BookingDate)

	var envelope struct {
		Error bool            `json:"error"`
		Msg   string          `json:"msg"`
		Data  BookingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Error)
	assert.Equal(t, int64(101), envelope.Data.ID)
	assert.Equal(t, "INV-1772366400000-A1B2C3D4", envelope.Data.InvoiceToken)
	assert.Equal(t, "2026-03-10", envelope.Data.BookingDate)
	require.NotNil(t, envelope.Data.BookingEndDate)
	assert.Equal(t, "2026-03-10", *envelope.Data.BookingEndDate)
	assert.Equal(t, 4600.0, envelope.Data.FinalPrice)
}

func TestHandle_GuestWithoutHeader(t *testing.T) {
	uc := &fakeUseCase{resp: usecaseResponse()}

	body := validBody()
	body["customerName"] = "Пётр"
	body["customerMobile"] = "+79995553311"

	rec := doRequest(t, uc, body, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.gotReq)
	assert.Nil(t, uc.gotReq.UserID, "no auth header means a guest request")
	assert.Equal(t, "Пётр", *uc.gotReq.CustomerName)
}

func TestHandle_PricingOverrides(t *testing.T) {
	uc := &fakeUseCase{resp: usecaseResponse()}

	body := validBody()
	body["originalPrice"] = 10000.0
	body["isLoggedIn"] = false

	rec := doRequest(t, uc, body, "42")

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.gotReq)
	require.NotNil(t, uc.gotReq.OriginalPrice)
	assert.Equal(t, 10000.0, *uc.gotReq.OriginalPrice)
	require.NotNil(t, uc.gotReq.IsLoggedIn)
	assert.False(t, *uc.gotReq.IsLoggedIn)
}

func TestHandle_BadRequests(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()

		NewHandler(&fakeUseCase{}, nopLogger{}).Handle(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		body := validBody()
		body["unexpectedField"] = true

		rec := doRequest(t, &fakeUseCase{}, body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing required fields", func(t *testing.T) {
		rec := doRequest(t, &fakeUseCase{}, map[string]interface{}{"farmhouseId": 7}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad date format", func(t *testing.T) {
		body := validBody()
		body["bookingDate"] = "10.03.2026"

		rec := doRequest(t, &fakeUseCase{}, body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative original price", func(t *testing.T) {
		body := validBody()
		body["originalPrice"] = -100.0

		rec := doRequest(t, &fakeUseCase{}, body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad check-in time", func(t *testing.T) {
		body := validBody()
		body["checkInTime"] = "25:99"

		rec := doRequest(t, &fakeUseCase{}, body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "overlap conflict", err: createBooking.ErrDatesOverlap, wantStatus: http.StatusConflict},
		{name: "inactive farmhouse conflict", err: createBooking.ErrFarmhouseInactive, wantStatus: http.StatusConflict},
		{name: "farmhouse not found", err: createBooking.ErrFarmhouseNotFound, wantStatus: http.StatusNotFound},
		{name: "user not found", err: createBooking.ErrUserNotFound, wantStatus: http.StatusNotFound},
		{name: "unknown category", err: createBooking.ErrInvalidDurationCategory, wantStatus: http.StatusBadRequest},
		{name: "price not found", err: createBooking.ErrPriceNotFound, wantStatus: http.StatusBadRequest},
		{name: "capacity exceeded", err: createBooking.ErrCapacityExceeded, wantStatus: http.StatusBadRequest},
		{name: "date in the past", err: createBooking.ErrInvalidDate, wantStatus: http.StatusBadRequest},
		{name: "bad partial payment", err: createBooking.ErrInvalidPartialPayment, wantStatus: http.StatusBadRequest},
		{name: "internal error", err: createBooking.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, &fakeUseCase{err: tt.err}, validBody(), "42")

			assert.Equal(t, tt.wantStatus, rec.Code)

			var envelope struct {
				Error bool   `json:"error"`
				Msg   string `json:"msg"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
			assert.True(t, envelope.Error)
			assert.NotEmpty(t, envelope.Msg)
		})
	}
}
