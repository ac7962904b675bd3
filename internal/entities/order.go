package entities

import "time"

type Order struct {
	ID                    string
	RestaurantID          string
	Pickup                GeoPoint
	Dropoff               GeoPoint
	Status                OrderStatusType
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

type OrderStatusType string

const (
	OrderNew       OrderStatusType = "new"
	OrderOffered   OrderStatusType = "offered"
	OrderTaken     OrderStatusType = "taken"
	OrderPickedUp  OrderStatusType = "picked_up"
	OrderDelivered OrderStatusType = "delivered"
	OrderCancelled OrderStatusType = "cancelled"
)

func (s OrderStatusType) String() string {
	return string(s)
}

// IsTerminal: терминальные заказы диспетчер больше не трогает.
func (s OrderStatusType) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// IsDispatchable: только такие статусы могут получить новый оффер.
func (s OrderStatusType) IsDispatchable() bool {
	return s == OrderNew || s == OrderOffered
}

// IsActiveForCourier - заказ в работе у курьера, учитывается в active_orders_count.
func (s OrderStatusType) IsActiveForCourier() bool {
	return s == OrderTaken || s == OrderPickedUp
}

type OrderModify struct {
	ID                    *string
	Status                *OrderStatusType
	AssignedCourierID     *string
	CurrentOfferID        *string
	CurrentOfferCourierID *string
	OfferExpiresAt        *time.Time
	LastOfferedCourierID  *string
	ClearCurrentOffer     bool
}
