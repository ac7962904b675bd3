package offer_expiry

import (
	"context"
	"time"
)

type Service interface {
	Run(ctx context.Context) error
}

// OfferExpiry - периодический тик сверки: истечение офферов и подметание
// заказов без живого оффера. Интервал тика ограничивает задержку, с которой
// просроченный оффер будет реально погашен.
type OfferExpiry struct {
	service  Service
	interval time.Duration
}

func NewOfferExpiry(service Service, interval time.Duration) *OfferExpiry {
	return &OfferExpiry{
		service:  service,
		interval: interval,
	}
}

func (o *OfferExpiry) TTL() time.Duration {
	return o.interval
}

func (o *OfferExpiry) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, o.interval)
	defer cancel()

	return o.service.Run(ctxWithTimeout)
}

func (o *OfferExpiry) Info() string {
	return "offer expiry sweep"
}
