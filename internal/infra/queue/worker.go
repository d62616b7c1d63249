package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/infra/http/middleware"
	"github.com/xavierca1/clinitech/internal/infra/integration/whatsapp"
	"github.com/xavierca1/clinitech/internal/infra/mail"
)

var errMalformed = errors.New("mensagem malformada")

type WhatsAppNotifier interface {
	SendMessage(ctx context.Context, input whatsapp.SendMessageInput) error
}

type EmailNotifier interface {
	SendAppointmentCancelled(to string, data mail.AppointmentCancelledData) error
}

// Consumer is the subset of *amqp.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	ch             Consumer
	whatsApp       WhatsAppNotifier
	email          EmailNotifier
	cancelTemplate string
	logger         *zap.Logger
}

// NewWorker aceita notifiers nil; o canal correspondente é pulado.
func NewWorker(ch Consumer, wa WhatsAppNotifier, email EmailNotifier, cancelTemplate string, logger *zap.Logger) *Worker {
	return &Worker{
		ch:             ch,
		whatsApp:       wa,
		email:          email,
		cancelTemplate: cancelTemplate,
		logger:         logger,
	}
}

// Start consome a fila até ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.ch.Consume(QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.logger.Info("worker de notificações aguardando", zap.String("queue", QueueName))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker de notificações encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("canal de consumo fechado")
			}
			if err := w.handle(ctx, d.Body); err != nil {
				w.logger.Error("falha ao processar notificação", zap.Error(err))
				// Sem requeue: vai para a DLQ.
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

func (w *Worker) handle(ctx context.Context, body []byte) error {
	var payload NotificationPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}

	switch payload.Kind {
	case KindAppointmentCancelled:
		return w.appointmentCancelled(ctx, payload)
	default:
		w.logger.Warn("tipo de notificação desconhecido", zap.String("kind", payload.Kind))
		return nil
	}
}

func (w *Worker) appointmentCancelled(ctx context.Context, p NotificationPayload) error {
	var errs []error

	if w.whatsApp != nil && p.Phone != "" {
		err := w.whatsApp.SendMessage(ctx, whatsapp.SendMessageInput{
			PhoneNumber:  "55" + p.Phone,
			TemplateName: w.cancelTemplate,
			Parameters:   []string{p.Name, p.Doctor, p.Date, p.Slot},
		})
		if err != nil {
			middleware.RecordIntegrationError("whatsapp")
			errs = append(errs, fmt.Errorf("whatsapp: %w", err))
		} else {
			middleware.RecordNotification("whatsapp")
		}
	}

	if w.email != nil && p.Email != "" {
		err := w.email.SendAppointmentCancelled(p.Email, mail.AppointmentCancelledData{
			Name:      p.Name,
			Doctor:    p.Doctor,
			Specialty: p.Specialty,
			Location:  p.Location,
			Date:      p.Date,
			Slot:      p.Slot,
		})
		if err != nil {
			middleware.RecordIntegrationError("email")
			errs = append(errs, fmt.Errorf("email: %w", err))
		} else {
			middleware.RecordNotification("email")
		}
	}

	w.logger.Info("cancelamento notificado",
		zap.String("cpf", p.CPF),
		zap.String("appointment_id", p.AppointmentID),
		zap.Int("failures", len(errs)),
	)
	return errors.Join(errs...)
}
