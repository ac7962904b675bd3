package offer_changed

// changedEvent - событие из топика offer-events: документ оффера создан
// или обновлен.
type changedEvent struct {
	OfferID   string `json:"offer_id"`
	OrderID   string `json:"order_id"`
	CourierID string `json:"courier_id"`
	Status    string `json:"status"`
}
