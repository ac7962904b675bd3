package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
	"dispatch/internal/service/dispatch"
	"dispatch/pkg/logger"
)

type Config struct {
	PageSize int
}

// Reconciler - периодическая сверка офферов: гасит просроченные,
// возвращает их заказы в диспетчеризацию и подметает заказы без живого
// оффера. Интервал тика - верхняя граница задержки истечения оффера.
type Reconciler struct {
	log       handlerLogger
	offers    OfferRepository
	orders    OrderRepository
	dispatch  DispatchService
	txManager TxManager
	cfg       Config
}

func New(
	log handlerLogger,
	offers OfferRepository,
	orders OrderRepository,
	dispatchService DispatchService,
	txManager TxManager,
	cfg Config,
) *Reconciler {
	return &Reconciler{
		log:       log.With(),
		offers:    offers,
		orders:    orders,
		dispatch:  dispatchService,
		txManager: txManager,
		cfg:       cfg,
	}
}

// Run - один тик: истечение, повторная диспетчеризация, страховочный проход.
func (r *Reconciler) Run(ctx context.Context) error {
	affectedOrderIDs, err := r.ExpireDueOffers(ctx)
	if err != nil {
		return fmt.Errorf("expire due offers: %w", err)
	}

	for _, orderID := range affectedOrderIDs {
		r.redispatch(ctx, orderID, dispatch.ReasonOfferExpired)
	}

	if err := r.SweepUnattendedOrders(ctx); err != nil {
		return fmt.Errorf("sweep unattended orders: %w", err)
	}

	return nil
}

// ExpireDueOffers гасит просроченные pending-офферы и возвращает заказы,
// которым нужна новая попытка. Каждый оффер обрабатывается в своей
// транзакции с повторной проверкой: между выборкой и фиксацией оффер могли
// успеть принять.
func (r *Reconciler) ExpireDueOffers(ctx context.Context) ([]string, error) {
	dueOffers, err := r.offers.ListExpiredPending(ctx, time.Now().UTC(), r.cfg.PageSize)
	if err != nil {
		return nil, fmt.Errorf("list expired pending offers: %w", err)
	}

	var affectedOrderIDs []string
	seen := make(map[string]struct{}, len(dueOffers))

	for i := range dueOffers {
		dueOffer := &dueOffers[i]

		expired, err := r.expireOne(ctx, dueOffer.ID)
		if err != nil {
			// одиночный сбой не валит весь проход
			r.log.With(
				logger.NewField("offer", dueOffer.ID),
				logger.NewField("order", dueOffer.OrderID),
				logger.NewField("error", err),
			).Error("offer expiry failed, skipping")
			continue
		}
		if !expired {
			continue
		}

		OffersExpiredTotal.Inc()

		if _, ok := seen[dueOffer.OrderID]; !ok {
			seen[dueOffer.OrderID] = struct{}{}
			affectedOrderIDs = append(affectedOrderIDs, dueOffer.OrderID)
		}
	}

	return affectedOrderIDs, nil
}

// expireOne возвращает true, если оффер действительно переведен в expired.
func (r *Reconciler) expireOne(ctx context.Context, offerID string) (bool, error) {
	var expired bool
	err := r.txManager.Do(ctx, func(ctx context.Context) error {
		expired = false

		offer, err := r.offers.GetByID(ctx, offerID)
		if err != nil {
			if errors.Is(err, repository.ErrOfferNotFound) {
				return nil
			}
			return fmt.Errorf("re-read offer: %w", err)
		}

		// гонка с принятием: оффер уже не pending или срок продлен - не трогаем
		if offer.Status != entities.OfferPending || offer.ExpiresAt.After(time.Now().UTC()) {
			return nil
		}

		if _, err := r.offers.UpdateStatus(ctx, offer.ID, entities.OfferExpired); err != nil {
			return fmt.Errorf("mark offer expired: %w", err)
		}
		expired = true

		return r.resetParentOrder(ctx, offer)
	})
	return expired, err
}

// resetParentOrder возвращает заказ в new, если он все еще указывает на
// истекший оффер и не назначен.
func (r *Reconciler) resetParentOrder(ctx context.Context, offer *entities.Offer) error {
	order, err := r.orders.GetByID(ctx, offer.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			// оффер без заказа - аномалия, логируем и не падаем
			r.log.With(
				logger.NewField("offer", offer.ID),
				logger.NewField("order", offer.OrderID),
			).Warn("expired offer references missing order")
			return nil
		}
		return fmt.Errorf("read parent order: %w", err)
	}

	if order.CurrentOfferID == nil || *order.CurrentOfferID != offer.ID {
		return nil
	}
	if order.AssignedCourierID != nil || !order.Status.IsDispatchable() {
		return nil
	}

	newStatus := entities.OrderNew
	_, err = r.orders.Update(ctx, entities.OrderModify{
		ID:                &order.ID,
		Status:            &newStatus,
		ClearCurrentOffer: true,
	})
	if err != nil {
		return fmt.Errorf("reset parent order: %w", err)
	}
	return nil
}

// SweepUnattendedOrders - страховка от потерянных триггеров: каждый открытый
// заказ без курьера получает попытку диспетчеризации.
func (r *Reconciler) SweepUnattendedOrders(ctx context.Context) error {
	orders, err := r.orders.ListUnattended(ctx, r.cfg.PageSize)
	if err != nil {
		return fmt.Errorf("list unattended orders: %w", err)
	}

	for i := range orders {
		SweepOrdersTotal.Inc()
		r.redispatch(ctx, orders[i].ID, dispatch.ReasonSweep)
	}

	return nil
}

func (r *Reconciler) redispatch(ctx context.Context, orderID string, reason dispatch.Reason) {
	result, err := r.dispatch.AttemptDispatch(ctx, orderID, reason)
	if err != nil {
		r.log.With(
			logger.NewField("order", orderID),
			logger.NewField("reason", reason.String()),
			logger.NewField("error", err),
		).Error("re-dispatch failed, order waits for next tick")
		return
	}

	r.log.With(
		logger.NewField("order", orderID),
		logger.NewField("reason", reason.String()),
		logger.NewField("outcome", string(result.Outcome)),
		logger.NewField("courier", result.CourierID),
	).Info("re-dispatch attempted")
}
