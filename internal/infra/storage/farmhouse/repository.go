package farmhouse

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/FMH-BookingService/internal/domain"
	"github.com/m04kA/FMH-BookingService/pkg/dbmetrics"
	"github.com/m04kA/FMH-BookingService/pkg/psqlbuilder"
)

var farmhouseColumns = []string{
	"id",
	"name",
	"slug",
	"farm_no",
	"max_persons",
	"bedrooms",
	"check_in_from",
	"check_out_to",
	"status",
	"is_most_visited",
	"created_at",
	"updated_at",
}

var priceOptionColumns = []string{
	"id",
	"farmhouse_id",
	"category",
	"price",
	"max_people",
}

// Repository репозиторий для работы с фермами и их прайс-опциями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ферм
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает ферму по ID вместе с прайс-опциями
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Farmhouse, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(farmhouseColumns...).
		From("farmhouses").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	farmhouse, err := scanFarmhouse(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrFarmhouseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan farmhouse: %v", ErrScanRow, err)
	}

	options, err := r.priceOptionsFor(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	farmhouse.PriceOptions = options

	return farmhouse, nil
}

// ListActive получает все активные фермы вместе с прайс-опциями
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Farmhouse, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(farmhouseColumns...).
		From("farmhouses").
		Where(squirrel.Eq{"status": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	farmhouses := make([]*domain.Farmhouse, 0)
	byID := make(map[int64]*domain.Farmhouse)
	for rows.Next() {
		farmhouse, err := scanFarmhouse(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan farmhouse: %v", ErrScanRow, err)
		}
		farmhouses = append(farmhouses, farmhouse)
		byID[farmhouse.ID] = farmhouse
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrScanRow, err)
	}

	if len(farmhouses) == 0 {
		return farmhouses, nil
	}

	// Прайс-опции подтягиваем одним запросом по всем фермам
	optionsQuery, optionsArgs, err := psqlbuilder.Select(priceOptionColumns...).
		From("price_options").
		Where("farmhouse_id IN (SELECT id FROM farmhouses WHERE status = true)").
		OrderBy("farmhouse_id ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build price options query: %v", ErrBuildQuery, err)
	}

	optionRows, err := executor.QueryContext(ctx, optionsQuery, optionsArgs...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute price options query: %v", ErrExecQuery, err)
	}
	defer optionRows.Close()

	for optionRows.Next() {
		var option domain.PriceOption
		if err := optionRows.Scan(
			&option.ID,
			&option.FarmhouseID,
			&option.Category,
			&option.Price,
			&option.MaxPeople,
		); err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan price option: %v", ErrScanRow, err)
		}
		if farmhouse, ok := byID[option.FarmhouseID]; ok {
			farmhouse.PriceOptions = append(farmhouse.PriceOptions, option)
		}
	}

	if err := optionRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - price option rows error: %v", ErrScanRow, err)
	}

	return farmhouses, nil
}

// SetMostVisited выставляет флаг is_most_visited ровно одной ферме
// Одним UPDATE - флаг всегда эксклюзивный, промежуточных состояний нет
func (r *Repository) SetMostVisited(ctx context.Context, farmhouseID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("farmhouses").
		Set("is_most_visited", squirrel.Expr("(id = ?)", farmhouseID)).
		Set("updated_at", squirrel.Expr("NOW()")).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetMostVisited - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetMostVisited - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) priceOptionsFor(ctx context.Context, executor DBExecutor, farmhouseID int64) ([]domain.PriceOption, error) {
	query, args, err := psqlbuilder.Select(priceOptionColumns...).
		From("price_options").
		Where(squirrel.Eq{"farmhouse_id": farmhouseID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: priceOptionsFor - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: priceOptionsFor - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	options := make([]domain.PriceOption, 0)
	for rows.Next() {
		var option domain.PriceOption
		if err := rows.Scan(
			&option.ID,
			&option.FarmhouseID,
			&option.Category,
			&option.Price,
			&option.MaxPeople,
		); err != nil {
			return nil, fmt.Errorf("%w: priceOptionsFor - scan price option: %v", ErrScanRow, err)
		}
		options = append(options, option)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: priceOptionsFor - rows error: %v", ErrScanRow, err)
	}

	return options, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFarmhouse(row rowScanner) (*domain.Farmhouse, error) {
	var farmhouse domain.Farmhouse
	err := row.Scan(
		&farmhouse.ID,
		&farmhouse.Name,
		&farmhouse.Slug,
		&farmhouse.FarmNo,
		&farmhouse.MaxPersons,
		&farmhouse.Bedrooms,
		&farmhouse.CheckInFrom,
		&farmhouse.CheckOutTo,
		&farmhouse.Status,
		&farmhouse.IsMostVisited,
		&farmhouse.CreatedAt,
		&farmhouse.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &farmhouse, nil
}
