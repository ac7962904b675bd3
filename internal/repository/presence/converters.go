package presence

import "dispatch/internal/entities"

func ToDomain(p *PresenceDB) *entities.CourierPresence {
	if p == nil {
		return nil
	}
	return &entities.CourierPresence{
		CourierID:          p.CourierID,
		IsOnline:           p.IsOnline,
		Location:           entities.GeoPoint{Lat: p.Lat, Lng: p.Lng},
		LastSeenAt:         p.LastSeenAt,
		ActiveOrdersCount:  p.ActiveOrdersCount,
		PendingOffersCount: p.PendingOffersCount,
		UpdatedAt:          p.UpdatedAt,
	}
}
