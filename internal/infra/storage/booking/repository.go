package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/FMH-BookingService/internal/domain"
	"github.com/m04kA/FMH-BookingService/pkg/dbmetrics"
	"github.com/m04kA/FMH-BookingService/pkg/psqlbuilder"
)

// bookingColumns полный список колонок таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"invoice_token",
	"user_id",
	"farmhouse_id",
	"customer_name",
	"customer_mobile",
	"customer_email",
	"booking_date",
	"booking_end_date",
	"booking_time_from",
	"booking_time_to",
	"booking_hours",
	"number_of_persons",
	"duration_category",
	"original_price",
	"discount_amount",
	"final_price",
	"is_logged_in",
	"payment_status",
	"farm_status",
	"booking_status",
	"next_status_check_at",
	"partial_paid_amount",
	"remaining_amount",
	"payment_history",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Создание бронирования с проверкой пересечений ДОЛЖНО выполняться в сериализуемой
// транзакции (см. usecase create_booking) - иначе возможна гонка check-then-act.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"invoice_token",
			"user_id",
			"farmhouse_id",
			"customer_name",
			"customer_mobile",
			"customer_email",
			"booking_date",
			"booking_end_date",
			"booking_time_from",
			"booking_time_to",
			"booking_hours",
			"number_of_persons",
			"duration_category",
			"original_price",
			"discount_amount",
			"final_price",
			"is_logged_in",
			"payment_status",
			"farm_status",
			"booking_status",
			"next_status_check_at",
			"partial_paid_amount",
			"remaining_amount",
			"payment_history",
		).
		Values(
			booking.InvoiceToken,
			booking.UserID,
			booking.FarmhouseID,
			booking.CustomerName,
			booking.CustomerMobile,
			booking.CustomerEmail,
			booking.BookingDate,
			booking.BookingEndDate,
			booking.BookingTimeFrom,
			booking.BookingTimeTo,
			booking.BookingHours,
			booking.NumberOfPersons,
			booking.DurationCategory,
			booking.OriginalPrice,
			booking.DiscountAmount,
			booking.FinalPrice,
			booking.IsLoggedIn,
			booking.PaymentStatus,
			booking.FarmStatus,
			booking.BookingStatus,
			booking.NextStatusCheckAt,
			booking.PartialPaidAmount,
			booking.RemainingAmount,
			booking.PaymentHistory,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: Create: %v", ErrDuplicateInvoiceToken, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByInvoiceToken получает бронирование по публичному invoice-токену
func (r *Repository) GetByInvoiceToken(ctx context.Context, token string) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"invoice_token": token}, "GetByInvoiceToken")
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, method string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, method, err)
	}

	return booking, nil
}

// GetByUserID получает список бронирований пользователя (история заказов)
func (r *Repository) GetByUserID(ctx context.Context, userID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booking_date DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByFarmhouse получает все неотменённые бронирования фермы
// Внутри транзакции добавляет FOR UPDATE - строки блокируются на время
// проверки пересечений и вставки нового бронирования
func (r *Repository) GetByFarmhouse(ctx context.Context, farmhouseID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"farmhouse_id": farmhouseID}).
		Where(squirrel.NotEq{"payment_status": domain.PaymentCancel}).
		OrderBy("booking_date DESC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFarmhouse - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFarmhouse - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListWithFilter получает бронирования с фильтрацией и пагинацией (админ-список)
// Возвращает страницу и общее число строк под фильтром
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	conditions := filterConditions(filter)

	countBuilder := psqlbuilder.Select("COUNT(*)").From("bookings")
	for _, cond := range conditions {
		countBuilder = countBuilder.Where(cond)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListWithFilter - build count query: %v", ErrBuildQuery, err)
	}

	var total int64
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: ListWithFilter - scan count: %v", ErrScanRow, err)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("booking_date DESC")
	for _, cond := range conditions {
		selectBuilder = selectBuilder.Where(cond)
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// ListIntersectingDay получает неотменённые бронирования, которые могут
// пересекаться с указанным календарным днём [dayStart, dayEnd):
// заезд в этот день, выезд в этот день или охватывающее бронирование
func (r *Repository) ListIntersectingDay(ctx context.Context, dayStart, dayEnd time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.NotEq{"payment_status": domain.PaymentCancel}).
		Where(squirrel.Or{
			squirrel.And{
				squirrel.GtOrEq{"booking_date": dayStart},
				squirrel.Lt{"booking_date": dayEnd},
			},
			squirrel.And{
				squirrel.GtOrEq{"booking_end_date": dayStart},
				squirrel.Lt{"booking_end_date": dayEnd},
			},
			squirrel.And{
				squirrel.Lt{"booking_date": dayStart},
				squirrel.GtOrEq{"booking_end_date": dayEnd},
			},
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListIntersectingDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListIntersectingDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListDueForStatusCheck получает бронирования, которым пора пересчитать статус:
// next_status_check_at наступил, либо не заполнен у нетерминальной строки (legacy)
func (r *Repository) ListDueForStatusCheck(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Or{
			squirrel.And{
				squirrel.NotEq{"next_status_check_at": nil},
				squirrel.LtOrEq{"next_status_check_at": now},
			},
			squirrel.And{
				squirrel.Eq{"next_status_check_at": nil},
				squirrel.NotEq{"booking_status": domain.BookingExpired},
			},
		}).
		OrderBy("booking_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListDueForStatusCheck - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDueForStatusCheck - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListNonTerminal получает все бронирования, ещё не достигшие статуса expired
// Используется часовым и суточным проходами sweep-воркера
func (r *Repository) ListNonTerminal(ctx context.Context) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.NotEq{"booking_status": domain.BookingExpired}).
		OrderBy("booking_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListNonTerminal - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListNonTerminal - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateLifecycle персистит пересчитанные поля жизненного цикла
// Запись идемпотентна - повторное применение того же перехода ничего не меняет
func (r *Repository) UpdateLifecycle(ctx context.Context, id int64, status domain.BookingStatus, farmStatus domain.FarmStatus, nextCheckAt *time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("booking_status", status).
		Set("farm_status", farmStatus).
		Set("next_status_check_at", nextCheckAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateLifecycle - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateLifecycle - execute update: %v", ErrExecQuery, err)
	}

	return checkRowsAffected(result, "UpdateLifecycle")
}

// UpdatePayment персистит переход статуса оплаты вместе с ledger-историей
func (r *Repository) UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus, farmStatus domain.FarmStatus, partialPaid, remaining *float64, history domain.PaymentHistory) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", status).
		Set("farm_status", farmStatus).
		Set("partial_paid_amount", partialPaid).
		Set("remaining_amount", remaining).
		Set("payment_history", history).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdatePayment - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdatePayment - execute update: %v", ErrExecQuery, err)
	}

	return checkRowsAffected(result, "UpdatePayment")
}

// UpdatePatch опциональные поля для административного редактирования
type UpdatePatch struct {
	BookingDate       *time.Time
	BookingEndDate    *time.Time
	BookingTimeFrom   *string
	BookingTimeTo     *string
	BookingHours      *int
	NumberOfPersons   *int
	DurationCategory  *domain.DurationCategory
	OriginalPrice     *float64
	DiscountAmount    *float64
	FinalPrice        *float64
	IsLoggedIn        *bool
	CustomerName      *string
	CustomerMobile    *string
	CustomerEmail     *string
	BookingStatus     *domain.BookingStatus
	FarmStatus        *domain.FarmStatus
	NextStatusCheckAt *time.Time
	// ClearNextStatusCheck сбрасывает next_status_check_at в NULL;
	// nil в NextStatusCheckAt означает "не трогать"
	ClearNextStatusCheck bool
}

// Update применяет частичное обновление полей бронирования
func (r *Repository) Update(ctx context.Context, id int64, patch UpdatePatch) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if patch.BookingDate != nil {
		updateBuilder = updateBuilder.Set("booking_date", *patch.BookingDate)
	}
	if patch.BookingEndDate != nil {
		updateBuilder = updateBuilder.Set("booking_end_date", *patch.BookingEndDate)
	}
	if patch.BookingTimeFrom != nil {
		updateBuilder = updateBuilder.Set("booking_time_from", *patch.BookingTimeFrom)
	}
	if patch.BookingTimeTo != nil {
		updateBuilder = updateBuilder.Set("booking_time_to", *patch.BookingTimeTo)
	}
	if patch.BookingHours != nil {
		updateBuilder = updateBuilder.Set("booking_hours", *patch.BookingHours)
	}
	if patch.NumberOfPersons != nil {
		updateBuilder = updateBuilder.Set("number_of_persons", *patch.NumberOfPersons)
	}
	if patch.DurationCategory != nil {
		updateBuilder = updateBuilder.Set("duration_category", *patch.DurationCategory)
	}
	if patch.OriginalPrice != nil {
		updateBuilder = updateBuilder.Set("original_price", *patch.OriginalPrice)
	}
	if patch.DiscountAmount != nil {
		updateBuilder = updateBuilder.Set("discount_amount", *patch.DiscountAmount)
	}
	if patch.FinalPrice != nil {
		updateBuilder = updateBuilder.Set("final_price", *patch.FinalPrice)
	}
	if patch.IsLoggedIn != nil {
		updateBuilder = updateBuilder.Set("is_logged_in", *patch.IsLoggedIn)
	}
	if patch.CustomerName != nil {
		updateBuilder = updateBuilder.Set("customer_name", *patch.CustomerName)
	}
	if patch.CustomerMobile != nil {
		updateBuilder = updateBuilder.Set("customer_mobile", *patch.CustomerMobile)
	}
	if patch.CustomerEmail != nil {
		updateBuilder = updateBuilder.Set("customer_email", *patch.CustomerEmail)
	}
	if patch.BookingStatus != nil {
		updateBuilder = updateBuilder.Set("booking_status", *patch.BookingStatus)
	}
	if patch.FarmStatus != nil {
		updateBuilder = updateBuilder.Set("farm_status", *patch.FarmStatus)
	}
	if patch.ClearNextStatusCheck {
		updateBuilder = updateBuilder.Set("next_status_check_at", nil)
	} else if patch.NextStatusCheckAt != nil {
		updateBuilder = updateBuilder.Set("next_status_check_at", *patch.NextStatusCheckAt)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return checkRowsAffected(result, "Update")
}

// Delete удаляет бронирование (физическое удаление по явному запросу админа)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return checkRowsAffected(result, "Delete")
}

// FarmhouseBookingCount число неотменённых бронирований одной фермы
type FarmhouseBookingCount struct {
	FarmhouseID int64
	Count       int64
}

// CountPerFarmhouse считает неотменённые бронирования по каждой ферме
// одним GROUP BY запросом; используется пересчётом флага isMostVisited
func (r *Repository) CountPerFarmhouse(ctx context.Context) ([]FarmhouseBookingCount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("farmhouse_id", "COUNT(*)").
		From("bookings").
		Where(squirrel.NotEq{"payment_status": domain.PaymentCancel}).
		GroupBy("farmhouse_id").
		OrderBy("farmhouse_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountPerFarmhouse - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountPerFarmhouse - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make([]FarmhouseBookingCount, 0)
	for rows.Next() {
		var c FarmhouseBookingCount
		if err := rows.Scan(&c.FarmhouseID, &c.Count); err != nil {
			return nil, fmt.Errorf("%w: CountPerFarmhouse - scan row: %v", ErrScanRow, err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountPerFarmhouse - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

func checkRowsAffected(result sql.Result, method string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}
