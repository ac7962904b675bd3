package loadcount

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
)

type Config struct {
	MaxActiveOrders  int
	MaxPendingOffers int
}

// Maintainer пересчитывает приблизительные счетчики нагрузки курьера
// по изменениям заказов и офферов.
//
// Счетчики питают только допуск к назначению, поэтому сканы ограничены
// порогом+1: значение "порог превышен" не обязано быть точным. Сам
// dedup-инвариант эти счетчики не защищают - он держится транзакцией
// диспетчера.
type Maintainer struct {
	orders   OrderRepository
	offers   OfferRepository
	presence PresenceRepository
	cfg      Config
}

func New(
	orders OrderRepository,
	offers OfferRepository,
	presence PresenceRepository,
	cfg Config,
) *Maintainer {
	return &Maintainer{
		orders:   orders,
		offers:   offers,
		presence: presence,
		cfg:      cfg,
	}
}

// RefreshCourierCounters пересчитывает и записывает счетчики курьера.
// Отсутствие presence-записи не ошибка: курьер мог ни разу не подключиться.
func (m *Maintainer) RefreshCourierCounters(ctx context.Context, courierID string) (*entities.CourierCounts, error) {
	if courierID == "" {
		return nil, nil
	}

	now := time.Now().UTC()

	pendingOffers, err := m.offers.CountLivePendingByCourier(ctx, courierID, now, m.cfg.MaxPendingOffers+1)
	if err != nil {
		return nil, fmt.Errorf("count pending offers for %s: %w", courierID, err)
	}

	activeOrders, err := m.orders.CountActiveByCourier(ctx, courierID, m.cfg.MaxActiveOrders+1)
	if err != nil {
		return nil, fmt.Errorf("count active orders for %s: %w", courierID, err)
	}

	counts := entities.CourierCounts{
		CourierID:          courierID,
		ActiveOrdersCount:  activeOrders,
		PendingOffersCount: pendingOffers,
	}

	err = m.presence.UpdateCounts(ctx, counts)
	if err != nil {
		if errors.Is(err, repository.ErrPresenceNotFound) {
			return &counts, nil
		}
		return nil, fmt.Errorf("write counters for %s: %w", courierID, err)
	}

	CounterRefreshesTotal.Inc()
	return &counts, nil
}
