//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=loadcount_test
package loadcount

import (
	"context"
	"time"

	"dispatch/internal/entities"
)

type OrderRepository interface {
	CountActiveByCourier(ctx context.Context, courierID string, limit int) (int, error)
}

type OfferRepository interface {
	CountLivePendingByCourier(ctx context.Context, courierID string, now time.Time, limit int) (int, error)
}

type PresenceRepository interface {
	UpdateCounts(ctx context.Context, counts entities.CourierCounts) error
}
