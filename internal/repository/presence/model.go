package presence

import "time"

type PresenceDB struct {
	CourierID          string
	IsOnline           bool
	Lat                float64
	Lng                float64
	LastSeenAt         time.Time
	ActiveOrdersCount  int
	PendingOffersCount int
	UpdatedAt          time.Time
}
