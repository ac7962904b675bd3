package offer_changed

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
				h.log.Info("offer.changed: claim.Messages() closed, exiting ConsumeClaim")
				return nil
			}

			shouldExit := h.messageProcessing(sess, message)
			if shouldExit {
				return nil
			}

		case <-sess.Context().Done():
			// Сессия закрыта (rebalance или остановка consumer group) — выходим
			h.log.Info("offer.changed: session context done, exiting ConsumeClaim")
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
		).Error("offer.changed handler received bad message")
		sess.MarkMessage(message, "")
		return false
	}

	msgLog := h.log.With(
		logger.NewField("offer", event.OfferID),
		logger.NewField("order", event.OrderID),
		logger.NewField("courier", event.CourierID),
		logger.NewField("status", event.Status),
		logger.NewField("offset", message.Offset),
	)

	msgLog.Info("offer.changed processing")

	err = h.route(ctx, event)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			msgLog.With(
				logger.NewField("error", err),
			).Warn("offer.changed handler context cancelled, message will be reprocessed")
			return true
		}

		// потерянный триггер подберет страховочный тик сверки
		msgLog.With(
			logger.NewField("error", err),
		).Warn("offer.changed handler failed, sweep tick will retry")
		sess.MarkMessage(message, "")
		return false
	}

	msgLog.Info("offer.changed: processed")
	sess.MarkMessage(message, "")
	return false
}

func (h *Handler) route(ctx context.Context, event changedEvent) error {
	// decline возвращает заказ в диспетчеризацию немедленно,
	// не дожидаясь страховочного тика
	if entities.OfferStatusType(event.Status) == entities.OfferDeclined {
		_, err := h.dispatchService.AttemptDispatch(ctx, event.OrderID, dispatch.ReasonOfferDeclined)
		if err != nil {
			return err
		}
	}

	// любое изменение оффера двигает счетчики нагрузки курьера
	_, err := h.loadService.RefreshCourierCounters(ctx, event.CourierID)
	return err
}
