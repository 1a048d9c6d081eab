package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/FMH-BookingService/internal/domain"
	"github.com/m04kA/FMH-BookingService/pkg/dbmetrics"
	"github.com/m04kA/FMH-BookingService/pkg/psqlbuilder"
)

var userColumns = []string{
	"id",
	"name",
	"mobile_no",
	"email",
	"login_type",
	"is_any_farm_booked",
	"booking_history",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с пользователями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория пользователей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает нового пользователя (в т.ч. гостевую запись при бронировании без логина)
func (r *Repository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	history, err := marshalHistory(u.BookingHistory)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal booking history: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("users").
		Columns("name", "mobile_no", "email", "login_type", "is_any_farm_booked", "booking_history").
		Values(u.Name, u.MobileNo, u.Email, u.LoginType, u.IsAnyFarmBooked, history).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return u, nil
}

// GetByID получает пользователя по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByMobile получает пользователя по номеру телефона
func (r *Repository) GetByMobile(ctx context.Context, mobileNo string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"mobile_no": mobileNo}, "GetByMobile")
}

// GetByEmail получает пользователя по email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email}, "GetByEmail")
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, method string) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(userColumns...).
		From("users").
		Where(where).
		OrderBy("id ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	var u domain.User
	var history []byte
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&u.ID,
		&u.Name,
		&u.MobileNo,
		&u.Email,
		&u.LoginType,
		&u.IsAnyFarmBooked,
		&history,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan user: %v", ErrScanRow, method, err)
	}

	if len(history) > 0 {
		if err := json.Unmarshal(history, &u.BookingHistory); err != nil {
			return nil, fmt.Errorf("%w: %s - unmarshal booking history: %v", ErrScanRow, method, err)
		}
	}

	return &u, nil
}

// UpdateName обновляет имя пользователя (дозаполнение гостевой записи)
func (r *Repository) UpdateName(ctx context.Context, userID int64, name string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("users").
		Set("name", name).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateName - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateName - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateName - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// AppendBookingHistory дописывает запись в историю бронирований пользователя
// и выставляет is_any_farm_booked. Append делаем на стороне БД, чтобы не
// терять записи при конкурентных бронированиях одного пользователя
func (r *Repository) AppendBookingHistory(ctx context.Context, userID int64, entry domain.UserBookingEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: AppendBookingHistory - marshal entry: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Update("users").
		Set("booking_history", squirrel.Expr("COALESCE(booking_history, '[]'::jsonb) || ?::jsonb", string(entryJSON))).
		Set("is_any_farm_booked", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AppendBookingHistory - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AppendBookingHistory - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AppendBookingHistory - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func marshalHistory(history []domain.UserBookingEntry) ([]byte, error) {
	if history == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(history)
}
