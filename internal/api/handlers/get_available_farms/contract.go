package get_available_farms

import (
	"context"

	getAvailableFarms "github.com/m04kA/FMH-BookingService/internal/usecase/get_available_farms"
)

type GetAvailableFarmsUseCase interface {
	Execute(ctx context.Context, req *getAvailableFarms.Request) (*getAvailableFarms.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
