package order_changed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/IBM/sarama"

	"dispatch/internal/entities"
	"dispatch/internal/service/dispatch"
	"dispatch/pkg/logger"
)

type Handler struct {
	dispatchService          DispatchService
	loadService              LoadService
	log                      handlerLogger
	messageProcessingTimeout time.Duration
}

func New(log handlerLogger, dispatchService DispatchService, loadService LoadService, timeout time.Duration) *Handler {
	handlerLog := log.With()

	return &Handler{
		dispatchService:          dispatchService,
		loadService:              loadService,
		log:                      handlerLog,
		messageProcessingTimeout: timeout,
	}
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				// Messages() закрыт — выходим
				h.log.Info("order.changed: claim.Messages() closed, exiting ConsumeClaim")
				return nil
			}

			shouldExit := h.messageProcessing(sess, message)
			if shouldExit {
				return nil
			}

		case <-sess.Context().Done():
			// Сессия закрыта (rebalance или остановка consumer group) — выходим
			h.log.Info("order.changed: session context done, exiting ConsumeClaim")
			return nil
		}
	}
}

// messageProcessing обрабатывает одно сообщение из Kafka.
// Возвращает true, если нужно прервать ConsumeClaim (при отмене контекста).
// Возвращает false для продолжения обработки следующих сообщений.
func (h *Handler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	ctx, cancel := context.WithTimeout(sess.Context(), h.messageProcessingTimeout)
	defer cancel()

	var event changedEvent
	err := json.Unmarshal(message.Value, &event)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("order.changed handler received bad message")
		sess.MarkMessage(message, "")
		return false
	}

	msgLog := h.log.With(
		logger.NewField("order", event.OrderID),
		logger.NewField("status", event.Status),
		logger.NewField("offset", message.Offset),
	)

	msgLog.Info("order.changed processing")

	err = h.route(ctx, event)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			msgLog.With(
				logger.NewField("error", err),
			).Warn("order.changed handler context cancelled, message will be reprocessed")
			return true
		}

		// потерянный триггер подберет страховочный тик сверки
		msgLog.With(
			logger.NewField("error", err),
		).Warn("order.changed handler failed, sweep tick will retry")
		sess.MarkMessage(message, "")
		return false
	}

	msgLog.Info("order.changed: processed")
	sess.MarkMessage(message, "")
	return false
}

func (h *Handler) route(ctx context.Context, event changedEvent) error {
	status := entities.OrderStatusType(event.Status)

	switch {
	case status == entities.OrderNew:
		_, err := h.dispatchService.AttemptDispatch(ctx, event.OrderID, dispatch.ReasonOrderCreated)
		if err != nil {
			return err
		}

	case status.IsTerminal():
		// закрытие заказа гасит его pending-офферы
		_, err := h.dispatchService.ReleaseOrderOffers(ctx, event.OrderID)
		if err != nil {
			return err
		}
	}

	// счетчики пересчитываются для обеих сторон переназначения;
	// пустой id курьера внутри - тихий no-op
	_, err := h.loadService.RefreshCourierCounters(ctx, event.AssignedCourierID)
	if err != nil {
		return err
	}

	if event.PreviousAssignedCourierID != event.AssignedCourierID {
		_, err = h.loadService.RefreshCourierCounters(ctx, event.PreviousAssignedCourierID)
		if err != nil {
			return err
		}
	}

	return nil
}
