package statussweep

import (
	"context"
	"time"

	"github.com/m04kA/FMH-BookingService/internal/domain"
)

// Названия проходов в логах и метриках
const (
	PassDue           = "due"
	PassHourly        = "hourly"
	PassComprehensive = "comprehensive"
)

// Интервалы проходов по умолчанию
const (
	DefaultDueInterval           = 5 * time.Minute
	DefaultHourlyInterval        = time.Hour
	DefaultComprehensiveInterval = 24 * time.Hour
)

// Service фоновый воркер пересчёта статусов жизненного цикла
//
// Три каденции:
//   - due: каждые 5 минут обрабатывает бронирования, у которых наступил
//     next_status_check_at (дешёвый индексный запрос);
//   - hourly: страховочный проход по всем нетерминальным бронированиям;
//   - comprehensive: суточный полный проход, подбирает строки с битыми
//     или отсутствующими scheduling-полями.
type Service struct {
	bookingRepo  BookingRepository
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger

	dueInterval           time.Duration
	hourlyInterval        time.Duration
	comprehensiveInterval time.Duration
}

// NewService создает новый экземпляр sweep-воркера
func NewService(bookingRepo BookingRepository, metrics Metrics, logger Logger) *Service {
	return &Service{
		bookingRepo:           bookingRepo,
		metrics:               metrics,
		timeProvider:          &RealTimeProvider{},
		logger:                logger,
		dueInterval:           DefaultDueInterval,
		hourlyInterval:        DefaultHourlyInterval,
		comprehensiveInterval: DefaultComprehensiveInterval,
	}
}

// WithIntervals переопределяет каденции проходов (используется в конфигурации и тестах)
func (s *Service) WithIntervals(due, hourly, comprehensive time.Duration) *Service {
	if due > 0 {
		s.dueInterval = due
	}
	if hourly > 0 {
		s.hourlyInterval = hourly
	}
	if comprehensive > 0 {
		s.comprehensiveInterval = comprehensive
	}
	return s
}

// Run запускает воркер и блокируется до отмены контекста
func (s *Service) Run(ctx context.Context) {
	s.logger.Info("StatusSweep: worker started, due=%s, hourly=%s, comprehensive=%s",
		s.dueInterval, s.hourlyInterval, s.comprehensiveInterval)

	dueTicker := time.NewTicker(s.dueInterval)
	defer dueTicker.Stop()
	hourlyTicker := time.NewTicker(s.hourlyInterval)
	defer hourlyTicker.Stop()
	comprehensiveTicker := time.NewTicker(s.comprehensiveInterval)
	defer comprehensiveTicker.Stop()

	// Первый проход сразу при старте - сервис мог быть недоступен,
	// пока бронирования ждали пересчёта
	s.RunDuePass(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("StatusSweep: worker stopped")
			return
		case <-dueTicker.C:
			s.RunDuePass(ctx)
		case <-hourlyTicker.C:
			s.RunFullPass(ctx, PassHourly)
		case <-comprehensiveTicker.C:
			s.RunFullPass(ctx, PassComprehensive)
		}
	}
}

// RunDuePass обрабатывает бронирования с наступившим next_status_check_at
func (s *Service) RunDuePass(ctx context.Context) {
	now := s.timeProvider.Now()

	bookings, err := s.bookingRepo.ListDueForStatusCheck(ctx, now)
	if err != nil {
		s.logger.Error("StatusSweep: %s pass failed to list bookings: %v", PassDue, err)
		s.metrics.ObserveSweepPass(PassDue, 0, 1)
		return
	}

	updated, failures := s.sweep(ctx, bookings, now)
	if updated > 0 || failures > 0 {
		s.logger.Info("StatusSweep: %s pass processed %d bookings, updated=%d, failures=%d",
			PassDue, len(bookings), updated, failures)
	}
	s.metrics.ObserveSweepPass(PassDue, updated, failures)
}

// RunFullPass обрабатывает все нетерминальные бронирования
func (s *Service) RunFullPass(ctx context.Context, pass string) {
	now := s.timeProvider.Now()

	bookings, err := s.bookingRepo.ListNonTerminal(ctx)
	if err != nil {
		s.logger.Error("StatusSweep: %s pass failed to list bookings: %v", pass, err)
		s.metrics.ObserveSweepPass(pass, 0, 1)
		return
	}

	updated, failures := s.sweep(ctx, bookings, now)
	s.logger.Info("StatusSweep: %s pass processed %d bookings, updated=%d, failures=%d",
		pass, len(bookings), updated, failures)
	s.metrics.ObserveSweepPass(pass, updated, failures)
}

// sweep пересчитывает и персистит статусы; ошибка одной строки не
// останавливает проход
func (s *Service) sweep(ctx context.Context, bookings []*domain.Booking, now time.Time) (updated, failures int) {
	for _, b := range bookings {
		select {
		case <-ctx.Done():
			return updated, failures
		default:
		}

		if b.IsCancelled() {
			continue
		}

		changed, err := domain.ApplyLifecycle(b, now)
		if err != nil {
			s.logger.Warn("StatusSweep: failed to evaluate booking id=%d: %v", b.ID, err)
			failures++
			continue
		}
		if !changed {
			continue
		}

		if err := s.bookingRepo.UpdateLifecycle(ctx, b.ID, b.BookingStatus, b.FarmStatus, b.NextStatusCheckAt); err != nil {
			s.logger.Warn("StatusSweep: failed to persist booking id=%d: %v", b.ID, err)
			failures++
			continue
		}

		s.logger.Info("StatusSweep: booking id=%d moved to %s", b.ID, b.BookingStatus)
		updated++
	}

	return updated, failures
}
