package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlekSi/pointer"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
	"dispatch/internal/service/candidates"
)

// Reason - источник попытки диспетчеризации. Только для логов и метрик,
// на логику не влияет.
type Reason string

const (
	ReasonOrderCreated  Reason = "order_created"
	ReasonOfferDeclined Reason = "offer_declined"
	ReasonOfferExpired  Reason = "offer_expired"
	ReasonSweep         Reason = "sweep"
	ReasonManual        Reason = "manual"
)

func (r Reason) String() string {
	return string(r)
}

type Outcome string

const (
	// OutcomeSkipped - предусловия не выполнены (заказ отсутствует, терминален
	// или уже назначен). Штатная ситуация при избыточных триггерах.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeReconciled - живой оффер уже есть, заказ приведен к нему.
	OutcomeReconciled Outcome = "reconciled"
	// OutcomeOffered - создан новый оффер.
	OutcomeOffered Outcome = "offered"
	// OutcomeNoCandidate - подходящих курьеров нет, заказ ждет следующего тика.
	OutcomeNoCandidate Outcome = "no_candidate"
)

type Result struct {
	OrderID   string
	Outcome   Outcome
	Cause     string
	OfferID   string
	CourierID string
}

type Config struct {
	OfferTimeout      time.Duration
	PresenceStaleness time.Duration
	MaxActiveOrders   int
	MaxPendingOffers  int
	CandidatePageSize int
	OfferPageSize     int
	OfferRetention    time.Duration
}

// Dispatcher выполняет одну попытку назначения заказа.
//
// Вся попытка - одна SERIALIZABLE-транзакция: сначала все чтения, потом
// решение, потом записи. Конфликт фиксации перезапускает замыкание целиком
// (pkg/tx), поэтому метод безопасно дергать конкурентно из любых триггеров:
// инвариант "не больше одного живого оффера на заказ" держится на
// hard-dedup ветке, а не на взаимном исключении вызовов.
type Dispatcher struct {
	orders    OrderRepository
	offers    OfferRepository
	presence  PresenceRepository
	txManager TxManager
	cfg       Config
}

func New(
	orders OrderRepository,
	offers OfferRepository,
	presence PresenceRepository,
	txManager TxManager,
	cfg Config,
) *Dispatcher {
	return &Dispatcher{
		orders:    orders,
		offers:    offers,
		presence:  presence,
		txManager: txManager,
		cfg:       cfg,
	}
}

func (d *Dispatcher) AttemptDispatch(ctx context.Context, orderID string, reason Reason) (*Result, error) {
	if !isValidOrderID(orderID) {
		return nil, ErrInvalidOrderID
	}

	result := Result{OrderID: orderID}
	err := d.txManager.Do(ctx, func(ctx context.Context) error {
		// замыкание перезапускается при конфликте - result собираем заново
		result = Result{OrderID: orderID}
		return d.attemptDispatchTx(ctx, orderID, &result)
	})
	if err != nil {
		return nil, fmt.Errorf("attempt dispatch %s: %w", orderID, err)
	}

	DispatchAttemptsTotal.WithLabelValues(reason.String(), string(result.Outcome)).Inc()
	return &result, nil
}

func (d *Dispatcher) attemptDispatchTx(ctx context.Context, orderID string, result *Result) error {
	order, err := d.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			result.Outcome = OutcomeSkipped
			result.Cause = "order_missing"
			return nil
		}
		return fmt.Errorf("read order: %w", err)
	}

	if !order.Status.IsDispatchable() {
		result.Outcome = OutcomeSkipped
		result.Cause = "status_" + order.Status.String()
		return nil
	}
	if order.AssignedCourierID != nil {
		result.Outcome = OutcomeSkipped
		result.Cause = "already_assigned"
		return nil
	}

	offers, err := d.offers.ListByOrderID(ctx, orderID, d.cfg.OfferPageSize)
	if err != nil {
		return fmt.Errorf("read offers: %w", err)
	}

	now := time.Now().UTC()

	if live := newestLiveOffer(offers, now); live != nil {
		return d.reconcileToLiveOffer(ctx, order, live, result)
	}

	return d.offerToNextCandidate(ctx, order, now, result)
}

// reconcileToLiveOffer - hard-dedup ветка: живой оффер авторитетен, любые
// дубли (след гонки) гасятся, заказ приводится к офферу.
func (d *Dispatcher) reconcileToLiveOffer(ctx context.Context, order *entities.Order, live *entities.Offer, result *Result) error {
	expired, err := d.offers.ExpirePendingByOrder(ctx, order.ID, live.ID)
	if err != nil {
		return fmt.Errorf("expire duplicate offers: %w", err)
	}
	if expired > 0 {
		DuplicateOffersExpiredTotal.Add(float64(expired))
	}

	offeredStatus := entities.OrderOffered
	_, err = d.orders.Update(ctx, entities.OrderModify{
		ID:                    &order.ID,
		Status:                &offeredStatus,
		CurrentOfferID:        &live.ID,
		CurrentOfferCourierID: &live.CourierID,
		OfferExpiresAt:        &live.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("reconcile order to live offer: %w", err)
	}

	result.Outcome = OutcomeReconciled
	result.OfferID = live.ID
	result.CourierID = live.CourierID
	return nil
}

func (d *Dispatcher) offerToNextCandidate(ctx context.Context, order *entities.Order, now time.Time, result *Result) error {
	// гасим протухшие pending-офферы заказа до выбора нового курьера
	if _, err := d.offers.ExpirePendingByOrder(ctx, order.ID, ""); err != nil {
		return fmt.Errorf("expire stale offers: %w", err)
	}

	records, err := d.presence.ListOnline(ctx, d.cfg.CandidatePageSize)
	if err != nil {
		return fmt.Errorf("read courier presence: %w", err)
	}

	eligible := candidates.Eligible(records, now, candidates.Rules{
		PresenceStaleness: d.cfg.PresenceStaleness,
		MaxActiveOrders:   d.cfg.MaxActiveOrders,
		MaxPendingOffers:  d.cfg.MaxPendingOffers,
	})
	ranked := candidates.RankByDistance(order.Pickup, eligible)

	courierID, found := candidates.SelectNext(ranked, order.LastOfferedCourierID)
	if !found {
		newStatus := entities.OrderNew
		_, err := d.orders.Update(ctx, entities.OrderModify{
			ID:                &order.ID,
			Status:            &newStatus,
			ClearCurrentOffer: true,
		})
		if err != nil {
			return fmt.Errorf("park order without candidates: %w", err)
		}

		result.Outcome = OutcomeNoCandidate
		return nil
	}

	createdOffer, err := d.offers.Create(ctx, entities.OfferCreate{
		OrderID:      order.ID,
		CourierID:    courierID,
		RestaurantID: order.RestaurantID,
		ExpiresAt:    now.Add(d.cfg.OfferTimeout),
		Pickup:       order.Pickup,
		Dropoff:      order.Dropoff,
		PriceCents:   order.PriceCents,
		CustomerName: order.CustomerName,
		PurgeAfter:   now.Add(d.cfg.OfferRetention),
	})
	if err != nil {
		return fmt.Errorf("create offer: %w", err)
	}

	offeredStatus := entities.OrderOffered
	_, err = d.orders.Update(ctx, entities.OrderModify{
		ID:                    &order.ID,
		Status:                &offeredStatus,
		LastOfferedCourierID:  pointer.To(courierID),
		CurrentOfferID:        &createdOffer.ID,
		CurrentOfferCourierID: &createdOffer.CourierID,
		OfferExpiresAt:        &createdOffer.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("point order at new offer: %w", err)
	}

	result.Outcome = OutcomeOffered
	result.OfferID = createdOffer.ID
	result.CourierID = createdOffer.CourierID
	return nil
}

// ReleaseOrderOffers гасит живые офферы закрытого заказа и снимает с заказа
// указатель на оффер. Новую диспетчеризацию не запускает.
func (d *Dispatcher) ReleaseOrderOffers(ctx context.Context, orderID string) (int64, error) {
	if !isValidOrderID(orderID) {
		return 0, ErrInvalidOrderID
	}

	var cancelled int64
	err := d.txManager.Do(ctx, func(ctx context.Context) error {
		cancelled = 0

		order, err := d.orders.GetByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return nil
			}
			return fmt.Errorf("read order: %w", err)
		}

		cancelled, err = d.offers.CancelPendingByOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("cancel pending offers: %w", err)
		}

		if order.CurrentOfferID != nil {
			_, err = d.orders.Update(ctx, entities.OrderModify{
				ID:                &order.ID,
				ClearCurrentOffer: true,
			})
			if err != nil {
				return fmt.Errorf("clear order offer pointer: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("release offers %s: %w", orderID, err)
	}

	if cancelled > 0 {
		OffersReleasedTotal.Add(float64(cancelled))
	}
	return cancelled, nil
}

// newestLiveOffer выбирает авторитетный живой оффер. Если гонка успела
// создать несколько, авторитетным считается оффер с самым поздним сроком.
func newestLiveOffer(offers []entities.Offer, now time.Time) *entities.Offer {
	var newest *entities.Offer
	for i := range offers {
		offer := &offers[i]
		if !offer.IsLive(now) {
			continue
		}
		if newest == nil || offer.ExpiresAt.After(newest.ExpiresAt) {
			newest = offer
		}
	}
	return newest
}
