//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=dispatch_test
package dispatch

import (
	"context"

	"dispatch/internal/entities"
)

type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Order, error)
	Update(ctx context.Context, orderModify entities.OrderModify) (*entities.Order, error)
}

type OfferRepository interface {
	Create(ctx context.Context, offerCreate entities.OfferCreate) (*entities.Offer, error)
	ListByOrderID(ctx context.Context, orderID string, limit int) ([]entities.Offer, error)
	ExpirePendingByOrder(ctx context.Context, orderID, exceptOfferID string) (int64, error)
	CancelPendingByOrder(ctx context.Context, orderID string) (int64, error)
}

type PresenceRepository interface {
	ListOnline(ctx context.Context, limit int) ([]entities.CourierPresence, error)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
