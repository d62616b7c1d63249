package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/infra/integration/whatsapp"
	"github.com/xavierca1/clinitech/internal/infra/mail"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, msg)
	return args.Error(0)
}

type MockWhatsApp struct {
	mock.Mock
}

func (m *MockWhatsApp) SendMessage(ctx context.Context, input whatsapp.SendMessageInput) error {
	return m.Called(input).Error(0)
}

type MockEmail struct {
	mock.Mock
}

func (m *MockEmail) SendAppointmentCancelled(to string, data mail.AppointmentCancelledData) error {
	return m.Called(to, data).Error(0)
}

type fakeConsumer struct {
	deliveries chan amqp.Delivery
	err        error
}

func (f *fakeConsumer) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, f.err
}

type recordingAck struct {
	acked  chan uint64
	nacked chan uint64
}

func (r *recordingAck) Ack(tag uint64, multiple bool) error {
	r.acked <- tag
	return nil
}

func (r *recordingAck) Nack(tag uint64, multiple, requeue bool) error {
	r.nacked <- tag
	return nil
}

func (r *recordingAck) Reject(tag uint64, requeue bool) error { return nil }

func samplePayload() NotificationPayload {
	return NotificationPayload{
		Kind:          KindAppointmentCancelled,
		CPF:           "52998224725",
		Name:          "Ana Souza",
		Phone:         "11987654321",
		Email:         "ana@example.com",
		AppointmentID: "apt-1",
		Doctor:        "Dr. João Dias",
		Specialty:     "Cardiologia",
		Location:      "Unidade Alfa",
		Date:          "10/03/2026",
		Slot:          "09:00",
		OccurredAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// ============ TESTES DO PRODUCER ============

func TestProducer_PublishNotification(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("PublishWithContext", ExchangeName, RoutingKey, mock.MatchedBy(func(msg amqp.Publishing) bool {
		var p NotificationPayload
		if err := json.Unmarshal(msg.Body, &p); err != nil {
			return false
		}
		return msg.DeliveryMode == amqp.Persistent && p.Kind == KindAppointmentCancelled && p.AppointmentID == "apt-1"
	})).Return(nil)

	err := NewProducer(pub).PublishNotification(context.Background(), samplePayload())

	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestProducer_PublishError(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything).Return(amqp.ErrClosed)

	err := NewProducer(pub).PublishNotification(context.Background(), samplePayload())

	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestNoopProducer(t *testing.T) {
	err := NewNoopProducer(zap.NewNop()).PublishNotification(context.Background(), samplePayload())
	assert.NoError(t, err)
}

// ============ TESTES DO WORKER ============

func TestWorker_HandleSendsBothChannels(t *testing.T) {
	wa := new(MockWhatsApp)
	em := new(MockEmail)
	wa.On("SendMessage", whatsapp.SendMessageInput{
		PhoneNumber:  "5511987654321",
		TemplateName: "consulta_cancelada",
		Parameters:   []string{"Ana Souza", "Dr. João Dias", "10/03/2026", "09:00"},
	}).Return(nil)
	em.On("SendAppointmentCancelled", "ana@example.com", mock.MatchedBy(func(d mail.AppointmentCancelledData) bool {
		return d.Name == "Ana Souza" && d.Slot == "09:00"
	})).Return(nil)

	w := NewWorker(nil, wa, em, "consulta_cancelada", zap.NewNop())
	body, _ := json.Marshal(samplePayload())

	require.NoError(t, w.handle(context.Background(), body))
	wa.AssertExpectations(t)
	em.AssertExpectations(t)
}

func TestWorker_HandleSkipsMissingContacts(t *testing.T) {
	wa := new(MockWhatsApp)
	em := new(MockEmail)
	p := samplePayload()
	p.Phone = ""
	p.Email = ""

	w := NewWorker(nil, wa, em, "t", zap.NewNop())
	body, _ := json.Marshal(p)

	require.NoError(t, w.handle(context.Background(), body))
	wa.AssertNotCalled(t, "SendMessage", mock.Anything)
	em.AssertNotCalled(t, "SendAppointmentCancelled", mock.Anything, mock.Anything)
}

func TestWorker_HandleReportsChannelFailure(t *testing.T) {
	wa := new(MockWhatsApp)
	wa.On("SendMessage", mock.Anything).Return(errors.New("api down"))

	w := NewWorker(nil, wa, nil, "t", zap.NewNop())
	body, _ := json.Marshal(samplePayload())

	err := w.handle(context.Background(), body)
	assert.ErrorContains(t, err, "whatsapp")
}

func TestWorker_HandleMalformed(t *testing.T) {
	w := NewWorker(nil, nil, nil, "t", zap.NewNop())
	err := w.handle(context.Background(), []byte(`{not json`))
	assert.ErrorIs(t, err, errMalformed)
}

func TestWorker_HandleUnknownKindIsAcked(t *testing.T) {
	w := NewWorker(nil, nil, nil, "t", zap.NewNop())
	assert.NoError(t, w.handle(context.Background(), []byte(`{"kind":"other"}`)))
}

func TestWorker_StartAcksAndNacks(t *testing.T) {
	ack := &recordingAck{acked: make(chan uint64, 1), nacked: make(chan uint64, 1)}
	deliveries := make(chan amqp.Delivery, 2)
	good, _ := json.Marshal(NotificationPayload{Kind: "other"})
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: good}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte(`xx`)}

	w := NewWorker(&fakeConsumer{deliveries: deliveries}, nil, nil, "t", zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	assert.Equal(t, uint64(1), <-ack.acked)
	assert.Equal(t, uint64(2), <-ack.nacked)

	cancel()
	assert.NoError(t, <-done)
}

func TestWorker_StartConsumeError(t *testing.T) {
	w := NewWorker(&fakeConsumer{err: amqp.ErrClosed}, nil, nil, "t", zap.NewNop())
	assert.Error(t, w.Start(context.Background()))
}

func TestWorker_StartChannelClosed(t *testing.T) {
	deliveries := make(chan amqp.Delivery)
	close(deliveries)
	w := NewWorker(&fakeConsumer{deliveries: deliveries}, nil, nil, "t", zap.NewNop())
	assert.Error(t, w.Start(context.Background()))
}
