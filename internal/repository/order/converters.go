package order

import "dispatch/internal/entities"

func ToDomain(o *OrderDB) *entities.Order {
	if o == nil {
		return nil
	}
	return &entities.Order{
		ID:                    o.ID,
		RestaurantID:          o.RestaurantID,
		Pickup:                entities.GeoPoint{Lat: o.PickupLat, Lng: o.PickupLng},
		Dropoff:               entities.GeoPoint{Lat: o.DropoffLat, Lng: o.DropoffLng},
		Status:                entities.OrderStatusType(o.Status),
		AssignedCourierID:     o.AssignedCourierID,
		CurrentOfferID:        o.CurrentOfferID,
		CurrentOfferCourierID: o.CurrentOfferCourierID,
		OfferExpiresAt:        o.OfferExpiresAt,
		LastOfferedCourierID:  o.LastOfferedCourierID,
		PriceCents:            o.PriceCents,
		CustomerName:          o.CustomerName,
		ReadyAt:               o.ReadyAt,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
	}
}
