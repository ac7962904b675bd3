//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=reconcile_test
package reconcile

import (
	"context"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/service/dispatch"
	"dispatch/pkg/logger"
)

type OfferRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Offer, error)
	ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]entities.Offer, error)
	UpdateStatus(ctx context.Context, id string, status entities.OfferStatusType) (*entities.Offer, error)
}

type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Order, error)
	Update(ctx context.Context, orderModify entities.OrderModify) (*entities.Order, error)
	ListUnattended(ctx context.Context, limit int) ([]entities.Order, error)
}

type DispatchService interface {
	AttemptDispatch(ctx context.Context, orderID string, reason dispatch.Reason) (*dispatch.Result, error)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
