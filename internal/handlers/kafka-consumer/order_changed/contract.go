//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_changed
package order_changed

import (
	"context"

	"dispatch/internal/entities"
	"dispatch/internal/service/dispatch"
	"dispatch/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type DispatchService interface {
	AttemptDispatch(ctx context.Context, orderID string, reason dispatch.Reason) (*dispatch.Result, error)
	ReleaseOrderOffers(ctx context.Context, orderID string) (int64, error)
}

type LoadService interface {
	RefreshCourierCounters(ctx context.Context, courierID string) (*entities.CourierCounts, error)
}
