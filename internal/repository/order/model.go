package order

import "time"

type OrderDB struct {
	ID                    string
	RestaurantID          string
	PickupLat             float64
	PickupLng             float64
	DropoffLat            float64
	DropoffLng            float64
	Status                string
	AssignedCourierID     *string
	CurrentOfferID        *string
	CurrentOfferCourierID *string
	OfferExpiresAt        *time.Time
	LastOfferedCourierID  *string
	PriceCents            int64
	CustomerName          string
	ReadyAt               time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
