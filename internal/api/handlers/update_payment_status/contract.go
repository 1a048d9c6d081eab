package update_payment_status

import (
	"context"

	updatePaymentStatus "github.com/m04kA/FMH-BookingService/internal/usecase/update_payment_status"
)

type UpdatePaymentStatusUseCase interface {
	Execute(ctx context.Context, req *updatePaymentStatus.Request) (*updatePaymentStatus.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
