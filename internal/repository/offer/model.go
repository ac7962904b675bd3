package offer

import "time"

type OfferDB struct {
	ID           string
	OrderID      string
	CourierID    string
	RestaurantID string
	Status       string
	ExpiresAt    time.Time
	PickupLat    float64
	PickupLng    float64
	DropoffLat   float64
	DropoffLng   float64
	PriceCents   int64
	CustomerName string
	PurgeAfter   time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
