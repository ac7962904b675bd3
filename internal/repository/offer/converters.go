package offer

import "dispatch/internal/entities"

func ToDomain(o *OfferDB) *entities.Offer {
	if o == nil {
		return nil
	}
	return &entities.Offer{
		ID:           o.ID,
		OrderID:      o.OrderID,
		CourierID:    o.CourierID,
		RestaurantID: o.RestaurantID,
		Status:       entities.OfferStatusType(o.Status),
		ExpiresAt:    o.ExpiresAt,
		Pickup:       entities.GeoPoint{Lat: o.PickupLat, Lng: o.PickupLng},
		Dropoff:      entities.GeoPoint{Lat: o.DropoffLat, Lng: o.DropoffLng},
		PriceCents:   o.PriceCents,
		CustomerName: o.CustomerName,
		PurgeAfter:   o.PurgeAfter,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
