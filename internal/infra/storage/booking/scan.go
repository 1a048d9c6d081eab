package booking

import (
	"database/sql"
	"fmt"

	"github.com/m04kA/FMH-BookingService/internal/domain"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в доменную модель
// Порядок полей строго соответствует bookingColumns
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	err := row.Scan(
		&booking.ID,
		&booking.InvoiceToken,
		&booking.UserID,
		&booking.FarmhouseID,
		&booking.CustomerName,
		&booking.CustomerMobile,
		&booking.CustomerEmail,
		&booking.BookingDate,
		&booking.BookingEndDate,
		&booking.BookingTimeFrom,
		&booking.BookingTimeTo,
		&booking.BookingHours,
		&booking.NumberOfPersons,
		&booking.DurationCategory,
		&booking.OriginalPrice,
		&booking.DiscountAmount,
		&booking.FinalPrice,
		&booking.IsLoggedIn,
		&booking.PaymentStatus,
		&booking.FarmStatus,
		&booking.BookingStatus,
		&booking.NextStatusCheckAt,
		&booking.PartialPaidAmount,
		&booking.RemainingAmount,
		&booking.PaymentHistory,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
