package entities

import "time"

// CourierPresence - снимок доступности курьера для диспетчеризации.
// Счетчики приблизительные (обновляются фоновым пересчетом), не авторитетные.
type CourierPresence struct {
	CourierID          string
	IsOnline           bool
	Location           GeoPoint
	LastSeenAt         time.Time
	ActiveOrdersCount  int
	PendingOffersCount int
	UpdatedAt          time.Time
}

type CourierCounts struct {
	CourierID          string
	ActiveOrdersCount  int
	PendingOffersCount int
}
