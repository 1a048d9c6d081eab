package statussweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/FMH-BookingService/internal/domain"
	"github.com/m04kA/FMH-BookingService/pkg/ptr"
)

type lifecycleUpdate struct {
	id         int64
	status     domain.BookingStatus
	farmStatus domain.FarmStatus
	nextCheck  *time.Time
}

// fakeBookingRepo in-memory репозиторий бронирований
type fakeBookingRepo struct {
	due         []*domain.Booking
	nonTerminal []*domain.Booking
	listErr     error
	updateErr   map[int64]error
	updates     []lifecycleUpdate
}

func (f *fakeBookingRepo) ListDueForStatusCheck(_ context.Context, _ time.Time) ([]*domain.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.due, nil
}

func (f *fakeBookingRepo) ListNonTerminal(_ context.Context) ([]*domain.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.nonTerminal, nil
}

func (f *fakeBookingRepo) UpdateLifecycle(_ context.Context, id int64, status domain.BookingStatus, farmStatus domain.FarmStatus, nextCheckAt *time.Time) error {
	if err, ok := f.updateErr[id]; ok {
		return err
	}
	f.updates = append(f.updates, lifecycleUpdate{id: id, status: status, farmStatus: farmStatus, nextCheck: nextCheckAt})
	return nil
}

type sweepObservation struct {
	pass     string
	updated  int
	failures int
}

type fakeMetrics struct {
	observations []sweepObservation
}

func (f *fakeMetrics) ObserveSweepPass(pass string, updated, failures int) {
	f.observations = append(f.observations, sweepObservation{pass: pass, updated: updated, failures: failures})
}

type fixedTimeProvider struct{ now time.Time }

func (p fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func bookingAt(id int64, checkIn, checkOut time.Time, status domain.BookingStatus, farmStatus domain.FarmStatus) *domain.Booking {
	return &domain.Booking{
		ID:               id,
		FarmhouseID:      7,
		BookingDate:      checkIn,
		BookingEndDate:   ptr.Ptr(checkOut),
		DurationCategory: domain.Regular12HR,
		PaymentStatus:    domain.PaymentIncomplete,
		FarmStatus:       farmStatus,
		BookingStatus:    status,
		NextStatusCheckAt: func() *time.Time {
			t := checkIn
			return &t
		}(),
	}
}

func newService(repo *fakeBookingRepo, metrics *fakeMetrics) *Service {
	svc := NewService(repo, metrics, nopLogger{})
	svc.timeProvider = fixedTimeProvider{now: testNow}
	return svc
}

func TestRunDuePass(t *testing.T) {
	t.Run("transitions due bookings and records metrics", func(t *testing.T) {
		// заезд был в 10:00, сейчас 12:00 - бронирование должно стать current
		started := bookingAt(1,
			time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 10, 22, 0, 0, 0, time.UTC),
			domain.BookingUpcoming, domain.FarmAvailable)

		// выезд был вчера - бронирование должно стать expired и освободить ферму
		finished := bookingAt(2,
			time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 9, 22, 0, 0, 0, time.UTC),
			domain.BookingCurrent, domain.FarmUnavailable)

		repo := &fakeBookingRepo{due: []*domain.Booking{started, finished}}
		metrics := &fakeMetrics{}

		newService(repo, metrics).RunDuePass(context.Background())

		require.Len(t, repo.updates, 2)

		assert.Equal(t, int64(1), repo.updates[0].id)
		assert.Equal(t, domain.BookingCurrent, repo.updates[0].status)
		assert.Equal(t, domain.FarmUnavailable, repo.updates[0].farmStatus)
		require.NotNil(t, repo.updates[0].nextCheck)
		assert.Equal(t, time.Date(2026, time.March, 10, 22, 0, 0, 0, time.UTC), *repo.updates[0].nextCheck)

		assert.Equal(t, int64(2), repo.updates[1].id)
		assert.Equal(t, domain.BookingExpired, repo.updates[1].status)
		assert.Equal(t, domain.FarmAvailable, repo.updates[1].farmStatus)
		assert.Nil(t, repo.updates[1].nextCheck, "expired bookings stop being re-checked")

		require.Len(t, metrics.observations, 1)
		assert.Equal(t, sweepObservation{pass: PassDue, updated: 2, failures: 0}, metrics.observations[0])
	})

	t.Run("unchanged bookings are not persisted", func(t *testing.T) {
		upcoming := bookingAt(1,
			time.Date(2026, time.March, 20, 10, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 20, 22, 0, 0, 0, time.UTC),
			domain.BookingUpcoming, domain.FarmAvailable)

		repo := &fakeBookingRepo{due: []*domain.Booking{upcoming}}
		metrics := &fakeMetrics{}

		newService(repo, metrics).RunDuePass(context.Background())

		assert.Empty(t, repo.updates)
		assert.Equal(t, sweepObservation{pass: PassDue, updated: 0, failures: 0}, metrics.observations[0])
	})

	t.Run("cancelled bookings are skipped", func(t *testing.T) {
		cancelled := bookingAt(1,
			time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 9, 22, 0, 0, 0, time.UTC),
			domain.BookingUpcoming, domain.FarmAvailable)
		cancelled.PaymentStatus = domain.PaymentCancel

		repo := &fakeBookingRepo{due: []*domain.Booking{cancelled}}
		metrics := &fakeMetrics{}

		newService(repo, metrics).RunDuePass(context.Background())

		assert.Empty(t, repo.updates)
	})

	t.Run("one failing row does not stop the pass", func(t *testing.T) {
		first := bookingAt(1,
			time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 10, 22, 0, 0, 0, time.UTC),
			domain.BookingUpcoming, domain.FarmAvailable)
		second := bookingAt(2,
			time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 10, 22, 0, 0, 0, time.UTC),
			domain.BookingUpcoming, domain.FarmAvailable)

		repo := &fakeBookingRepo{
			due:       []*domain.Booking{first, second},
			updateErr: map[int64]error{1: errors.New("connection reset")},
		}
		metrics := &fakeMetrics{}

		newService(repo, metrics).RunDuePass(context.Background())

		require.Len(t, repo.updates, 1)
		assert.Equal(t, int64(2), repo.updates[0].id)
		assert.Equal(t, sweepObservation{pass: PassDue, updated: 1, failures: 1}, metrics.observations[0])
	})

	t.Run("list failure is counted", func(t *testing.T) {
		repo := &fakeBookingRepo{listErr: errors.New("db down")}
		metrics := &fakeMetrics{}

		newService(repo, metrics).RunDuePass(context.Background())

		assert.Equal(t, sweepObservation{pass: PassDue, updated: 0, failures: 1}, metrics.observations[0])
	})

	t.Run("cancelled context stops mid-pass", func(t *testing.T) {
		stale := bookingAt(1,
			time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 9, 22, 0, 0, 0, time.UTC),
			domain.BookingCurrent, domain.FarmUnavailable)

		repo := &fakeBookingRepo{due: []*domain.Booking{stale}}
		metrics := &fakeMetrics{}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		newService(repo, metrics).RunDuePass(ctx)

		assert.Empty(t, repo.updates)
	})
}

func TestRunFullPass(t *testing.T) {
	stale := bookingAt(1,
		time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 9, 22, 0, 0, 0, time.UTC),
		domain.BookingCurrent, domain.FarmUnavailable)
	// строка без scheduling-поля, которую due-проход мог пропустить
	stale.NextStatusCheckAt = nil

	repo := &fakeBookingRepo{nonTerminal: []*domain.Booking{stale}}
	metrics := &fakeMetrics{}

	newService(repo, metrics).RunFullPass(context.Background(), PassComprehensive)

	require.Len(t, repo.updates, 1)
	assert.Equal(t, domain.BookingExpired, repo.updates[0].status)
	assert.Equal(t, domain.FarmAvailable, repo.updates[0].farmStatus)
	assert.Equal(t, sweepObservation{pass: PassComprehensive, updated: 1, failures: 0}, metrics.observations[0])
}

func TestRunStopsOnContextCancel(t *testing.T) {
	repo := &fakeBookingRepo{}
	metrics := &fakeMetrics{}

	svc := newService(repo, metrics).WithIntervals(time.Hour, time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}

	// стартовый due-проход успел отработать до отмены
	require.NotEmpty(t, metrics.observations)
	assert.Equal(t, PassDue, metrics.observations[0].pass)
}

func TestWithIntervals(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, &fakeMetrics{}, nopLogger{})

	svc.WithIntervals(time.Minute, 30*time.Minute, 12*time.Hour)
	assert.Equal(t, time.Minute, svc.dueInterval)
	assert.Equal(t, 30*time.Minute, svc.hourlyInterval)
	assert.Equal(t, 12*time.Hour, svc.comprehensiveInterval)

	// нулевые и отрицательные значения не затирают настройки
	svc.WithIntervals(0, -time.Minute, 0)
	assert.Equal(t, time.Minute, svc.dueInterval)
	assert.Equal(t, 30*time.Minute, svc.hourlyInterval)
	assert.Equal(t, 12*time.Hour, svc.comprehensiveInterval)
}
