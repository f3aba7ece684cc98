package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/xavierca1/cohort-crm/internal/entity"
)

// StageChangedHandler processa um evento; erro = Nack para a DLQ.
type StageChangedHandler interface {
	HandleStageChanged(ctx context.Context, event entity.StageChangedEvent) error
}

type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel Consumer
	Handler StageChangedHandler
}

func NewWorker(ch Consumer, handler StageChangedHandler) *Worker {
	return &Worker{Channel: ch, Handler: handler}
}

// Start consome até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	logrus.WithField("queue", queueName).Info(" [*] Worker rodando e aguardando na fila")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				logrus.Warn("⚠️ [WORKER] canal de entregas fechado")
				return nil
			}
			w.Handle(ctx, d)
		}
	}
}

// Handle decodifica, processa e faz Ack/Nack de uma entrega.
func (w *Worker) Handle(ctx context.Context, d amqp.Delivery) {
	var event entity.StageChangedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil || event.LeadID == "" {
		logrus.WithField("body", string(d.Body)).Error("❌ [WORKER] evento inválido")
		// mensagem podre: rejeita sem requeue para não travar a fila
		d.Nack(false, false)
		return
	}

	log := logrus.WithFields(logrus.Fields{
		"lead_id": event.LeadID,
		"from":    event.FromStage,
		"to":      event.ToStage,
	})
	log.Info("📥 [WORKER] transição recebida")

	if err := w.Handler.HandleStageChanged(ctx, event); err != nil {
		log.WithError(err).Error("❌ [WORKER] falha ao processar transição")
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}
