package booking

import (
	"github.com/Masterminds/squirrel"

	"github.com/m04kA/FMH-BookingService/internal/domain"
)

// filterConditions собирает WHERE-условия из фильтра списка бронирований
// Используется и для страницы, и для COUNT - условия должны совпадать
func filterConditions(filter domain.BookingsFilter) []squirrel.Sqlizer {
	conditions := make([]squirrel.Sqlizer, 0)

	if filter.FarmhouseID != nil {
		conditions = append(conditions, squirrel.Eq{"farmhouse_id": *filter.FarmhouseID})
	}
	if filter.UserID != nil {
		conditions = append(conditions, squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.PaymentStatus != nil {
		conditions = append(conditions, squirrel.Eq{"payment_status": *filter.PaymentStatus})
	}
	if filter.PaymentStatusExcluding != nil {
		conditions = append(conditions, squirrel.NotEq{"payment_status": *filter.PaymentStatusExcluding})
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, squirrel.GtOrEq{"booking_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		conditions = append(conditions, squirrel.LtOrEq{"booking_date": *filter.DateTo})
	}
	if filter.NextCheckDueBefore != nil {
		conditions = append(conditions, squirrel.LtOrEq{"next_status_check_at": *filter.NextCheckDueBefore})
	}

	return conditions
}
