package order_changed

// changedEvent - событие из топика order-events: документ заказа создан
// или обновлен. Несет id, статус после изменения и обе стороны
// назначения: без prev-снимка курьер, с которого сняли заказ, остался бы
// с протухшим счетчиком навсегда.
type changedEvent struct {
	OrderID                   string `json:"order_id"`
	Status                    string `json:"status"`
	AssignedCourierID         string `json:"assigned_courier_id,omitempty"`
	PreviousAssignedCourierID string `json:"previous_assigned_courier_id,omitempty"`
}
