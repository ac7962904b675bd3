package entities

import "time"

// Offer - одно предложение одного заказа одному курьеру.
// Snapshot-поля копируются из заказа при создании и больше не синхронизируются.
type Offer struct {
	ID           string
	OrderID      string
	CourierID    string
	RestaurantID string
	Status       OfferStatusType
	ExpiresAt    time.Time
	Pickup       GeoPoint
	Dropoff      GeoPoint
	PriceCents   int64
	CustomerName string
	PurgeAfter   time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type OfferStatusType string

const (
	OfferPending   OfferStatusType = "pending"
	OfferAccepted  OfferStatusType = "accepted"
	OfferDeclined  OfferStatusType = "declined"
	OfferExpired   OfferStatusType = "expired"
	OfferCancelled OfferStatusType = "cancelled"
)

func (s OfferStatusType) String() string {
	return string(s)
}

func (s OfferStatusType) IsTerminal() bool {
	return s != OfferPending
}

// IsLive - оффер считается живым, пока он pending и срок не вышел.
func (o *Offer) IsLive(now time.Time) bool {
	return o.Status == OfferPending && o.ExpiresAt.After(now)
}

type OfferCreate struct {
	OrderID      string
	CourierID    string
	RestaurantID string
	ExpiresAt    time.Time
	Pickup       GeoPoint
	Dropoff      GeoPoint
	PriceCents   int64
	CustomerName string
	PurgeAfter   time.Time
}
