package update_payment_status

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/FMH-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/FMH-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/FMH-BookingService/pkg/ptr"
)

// fakeBookingRepo in-memory репозиторий бронирований
type fakeBookingRepo struct {
	booking   *domain.Booking
	updated   bool
	lifecycle []domain.BookingStatus
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) UpdateLifecycle(_ context.Context, _ int64, status domain.BookingStatus, farmStatus domain.FarmStatus, nextCheckAt *time.Time) error {
	f.booking.BookingStatus = status
	f.booking.FarmStatus = farmStatus
	f.booking.NextStatusCheckAt = nextCheckAt
	f.lifecycle = append(f.lifecycle, status)
	return nil
}

func (f *fakeBookingRepo) UpdatePayment(_ context.Context, id int64, status domain.PaymentStatus, farmStatus domain.FarmStatus, partialPaid, remaining *float64, history domain.PaymentHistory) error {
	f.booking.PaymentStatus = status
	f.booking.FarmStatus = farmStatus
	f.booking.PartialPaidAmount = partialPaid
	f.booking.RemainingAmount = remaining
	f.booking.PaymentHistory = history
	f.updated = true
	return nil
}

type fakeTxManager struct{ calls int }

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fixedTimeProvider struct{ now time.Time }

func (p fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2026, time.March, 5, 15, 0, 0, 0, time.UTC)

func storedBooking() *domain.Booking {
	checkIn := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:                33,
		InvoiceToken:      "INV-1772366400000-A1B2C3D4",
		FarmhouseID:       7,
		BookingDate:       checkIn,
		BookingEndDate:    ptr.Ptr(time.Date(2026, time.March, 10, 22, 0, 0, 0, time.UTC)),
		DurationCategory:  domain.Regular12HR,
		FinalPrice:        4600,
		PaymentStatus:     domain.PaymentIncomplete,
		FarmStatus:        domain.FarmAvailable,
		BookingStatus:     domain.BookingUpcoming,
		NextStatusCheckAt: ptr.Ptr(checkIn),
		PaymentHistory: domain.PaymentHistory{
			{ToStatus: domain.PaymentIncomplete, At: testNow.AddDate(0, 0, -3)},
		},
	}
}

func newFixture() (*UseCase, *fakeBookingRepo, *fakeTxManager) {
	repo := &fakeBookingRepo{booking: storedBooking()}
	txManager := &fakeTxManager{}
	uc := NewUseCase(repo, txManager, nopLogger{})
	uc.timeProvider = fixedTimeProvider{now: testNow}
	return uc, repo, txManager
}

func TestExecute_PartialPayment(t *testing.T) {
	uc, repo, txManager := newFixture()

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:         33,
		PaymentStatus:     "partial",
		PartialPaidAmount: ptr.Ptr(1600.0),
		Notes:             ptr.Ptr("аванс наличными"),
	})
	require.NoError(t, err)

	assert.Equal(t, "partial", resp.PaymentStatus)
	assert.Equal(t, "unavailable", resp.FarmStatus, "incoming payment occupies the farm")
	require.NotNil(t, resp.PartialPaidAmount)
	assert.Equal(t, 1600.0, *resp.PartialPaidAmount)
	require.NotNil(t, resp.RemainingAmount)
	assert.Equal(t, 3000.0, *resp.RemainingAmount)

	// ledger: исходное событие + новое, порядок сохранён
	require.Len(t, resp.PaymentHistory, 2)
	event := resp.PaymentHistory[1]
	assert.Equal(t, domain.PaymentIncomplete, event.FromStatus)
	assert.Equal(t, domain.PaymentPartial, event.ToStatus)
	assert.Equal(t, 1600.0, *event.Amount)
	assert.Equal(t, "аванс наличными", *event.Notes)
	assert.True(t, event.At.Equal(testNow))

	assert.True(t, repo.updated)
	assert.Equal(t, 1, txManager.calls, "read and append run in one serializable transaction")
}

func TestExecute_ExplicitRemainingWins(t *testing.T) {
	uc, _, _ := newFixture()

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:         33,
		PaymentStatus:     "partial",
		PartialPaidAmount: ptr.Ptr(1600.0),
		RemainingAmount:   ptr.Ptr(2900.0),
	})
	require.NoError(t, err)

	assert.Equal(t, 2900.0, *resp.RemainingAmount)
}

func TestExecute_FullPayment(t *testing.T) {
	uc, _, _ := newFixture()

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 33, PaymentStatus: "paid"})
	require.NoError(t, err)

	assert.Equal(t, "paid", resp.PaymentStatus)
	assert.Equal(t, "unavailable", resp.FarmStatus)
	assert.Nil(t, resp.PartialPaidAmount)
	require.NotNil(t, resp.RemainingAmount)
	assert.Equal(t, 0.0, *resp.RemainingAmount)
}

func TestExecute_StaleLifecycleRefreshedBeforePayment(t *testing.T) {
	uc, repo, _ := newFixture()

	// проживание уже закончилось, но sweep до брони ещё не дошёл
	repo.booking.BookingDate = time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)
	repo.booking.BookingEndDate = ptr.Ptr(time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC))
	repo.booking.DurationCategory = domain.Regular24HR
	repo.booking.BookingStatus = domain.BookingCurrent
	repo.booking.FarmStatus = domain.FarmUnavailable
	repo.booking.NextStatusCheckAt = ptr.Ptr(time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 33, PaymentStatus: "paid"})
	require.NoError(t, err)

	assert.Equal(t, "paid", resp.PaymentStatus)
	assert.Equal(t, "available", resp.FarmStatus, "payment for a finished stay must not occupy the farm")

	require.Len(t, repo.lifecycle, 1, "the refreshed lifecycle is persisted")
	assert.Equal(t, domain.BookingExpired, repo.lifecycle[0])
	assert.Equal(t, domain.BookingExpired, repo.booking.BookingStatus)
	assert.Nil(t, repo.booking.NextStatusCheckAt)
}

func TestExecute_CancelFreesTheFarm(t *testing.T) {
	uc, repo, _ := newFixture()
	repo.booking.PaymentStatus = domain.PaymentPartial
	repo.booking.FarmStatus = domain.FarmUnavailable
	repo.booking.PartialPaidAmount = ptr.Ptr(1600.0)
	repo.booking.RemainingAmount = ptr.Ptr(3000.0)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 33, PaymentStatus: "cancel"})
	require.NoError(t, err)

	assert.Equal(t, "cancel", resp.PaymentStatus)
	assert.Equal(t, "available", resp.FarmStatus, "cancellation releases the farm")
	assert.Nil(t, resp.PartialPaidAmount, "cancel wipes the partial payment fields")
	assert.Nil(t, resp.RemainingAmount)

	require.Len(t, resp.PaymentHistory, 2)
	assert.Equal(t, domain.PaymentPartial, resp.PaymentHistory[1].FromStatus)
	assert.Equal(t, domain.PaymentCancel, resp.PaymentHistory[1].ToStatus)
}

func TestExecute_CancelledIsTerminal(t *testing.T) {
	uc, repo, _ := newFixture()
	repo.booking.PaymentStatus = domain.PaymentCancel

	for _, status := range []string{"incomplete", "partial", "paid", "cancel"} {
		req := &Request{BookingID: 33, PaymentStatus: status}
		if status == "partial" {
			req.PartialPaidAmount = ptr.Ptr(1000.0)
		}
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrBookingCancelled, "cancelled booking must reject %q", status)
	}
	assert.False(t, repo.updated)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "unknown status",
			req:     &Request{BookingID: 33, PaymentStatus: "refunded"},
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "partial without amount",
			req:     &Request{BookingID: 33, PaymentStatus: "partial"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "non-positive booking id",
			req:     &Request{BookingID: 0, PaymentStatus: "paid"},
			wantErr: ErrInvalidInput,
		},
		{
			name: "partial amount above final price",
			req: &Request{
				BookingID:         33,
				PaymentStatus:     "partial",
				PartialPaidAmount: ptr.Ptr(4600.0),
			},
			wantErr: ErrInvalidPartialPayment,
		},
		{
			name: "notes too long",
			req: &Request{
				BookingID:     33,
				PaymentStatus: "paid",
				Notes:         ptr.Ptr(strings.Repeat("x", domain.MaxNotesLength+1)),
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "booking not found",
			req:     &Request{BookingID: 404, PaymentStatus: "paid"},
			wantErr: ErrBookingNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, _ := newFixture()
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, repo.updated)
		})
	}
}
