package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const KindAppointmentCancelled = "appointment_cancelled"

// NotificationPayload é o evento publicado para o worker de notificações.
type NotificationPayload struct {
	Kind string `json:"kind"`

	CPF   string `json:"cpf"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`

	AppointmentID string `json:"appointment_id,omitempty"`
	Doctor        string `json:"doctor,omitempty"`
	Specialty     string `json:"specialty,omitempty"`
	Location      string `json:"location,omitempty"`
	Date          string `json:"date,omitempty"` // DD/MM/AAAA
	Slot          string `json:"slot,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher is the subset of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{ch: ch}
}

func (p *RabbitMQProducer) PublishNotification(ctx context.Context, payload NotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    payload.OccurredAt,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}

// NoopProducer só registra o evento. Usado quando RABBITMQ_URL está vazio.
type NoopProducer struct {
	logger *zap.Logger
}

func NewNoopProducer(logger *zap.Logger) *NoopProducer {
	return &NoopProducer{logger: logger}
}

func (p *NoopProducer) PublishNotification(_ context.Context, payload NotificationPayload) error {
	p.logger.Info("notificação descartada (fila desabilitada)",
		zap.String("kind", payload.Kind),
		zap.String("cpf", payload.CPF),
		zap.String("appointment_id", payload.AppointmentID),
	)
	return nil
}
