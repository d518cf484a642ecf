package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/jhoicas/mercado-api/internal/application/ordering"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Tipos de evento publicados en el topic de pedidos.
const (
	EventOrderCreated       = "orders.created"
	EventOrderStatusChanged = "orders.status_changed"
)

var _ ordering.EventPublisher = (*Publisher)(nil)

// OrderEvent cuerpo JSON de los eventos de pedidos. La clave del mensaje es el id del pedido,
// así todos los eventos de un pedido caen en la misma partición.
type OrderEvent struct {
	EventID        string          `json:"event_id"`
	Type           string          `json:"type"`
	OccurredAt     time.Time       `json:"occurred_at"`
	OrderID        string          `json:"order_id"`
	CompanyID      string          `json:"empresa_id"`
	ClientID       string          `json:"cliente_id"`
	CourierID      *string         `json:"repartidor_id,omitempty"`
	Status         string          `json:"estado"`
	PreviousStatus string          `json:"estado_anterior,omitempty"`
	Total          decimal.Decimal `json:"total"`
	Items          int             `json:"items"`
}

// Publisher publica eventos de pedidos con un SyncProducer de sarama.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	log      zerolog.Logger
	now      func() time.Time
}

// NewPublisher conecta con los brokers. Acks de todas las réplicas y producer idempotente.
func NewPublisher(brokers []string, topic string, log zerolog.Logger) (*Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("crear producer kafka: %w", err)
	}
	return newPublisher(producer, topic, log), nil
}

func newPublisher(producer sarama.SyncProducer, topic string, log zerolog.Logger) *Publisher {
	return &Publisher{producer: producer, topic: topic, log: log, now: time.Now}
}

// PublishOrderCreated publica orders.created.
func (p *Publisher) PublishOrderCreated(ctx context.Context, o *entity.Order) error {
	return p.publish(ctx, p.event(EventOrderCreated, o, ""))
}

// PublishOrderStatusChanged publica orders.status_changed con el estado anterior.
func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, o *entity.Order, previous entity.OrderStatus) error {
	return p.publish(ctx, p.event(EventOrderStatusChanged, o, string(previous)))
}

func (p *Publisher) event(kind string, o *entity.Order, previous string) OrderEvent {
	return OrderEvent{
		EventID:        uuid.New().String(),
		Type:           kind,
		OccurredAt:     p.now().UTC(),
		OrderID:        o.ID,
		CompanyID:      o.CompanyID,
		ClientID:       o.ClientID,
		CourierID:      o.CourierID,
		Status:         string(o.Status),
		PreviousStatus: previous,
		Total:          o.Total,
		Items:          len(o.Items),
	}
}

func (p *Publisher) publish(ctx context.Context, ev OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(ev.OrderID),
		Value:     sarama.ByteEncoder(data),
		Timestamp: ev.OccurredAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(ev.Type)},
		},
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Error().Err(err).Str("topic", p.topic).Str("order_id", ev.OrderID).Str("type", ev.Type).
			Msg("no se pudo enviar el evento a kafka")
		return fmt.Errorf("enviar evento: %w", err)
	}
	p.log.Debug().Str("topic", p.topic).Str("order_id", ev.OrderID).Str("type", ev.Type).
		Int32("partition", partition).Int64("offset", offset).Msg("evento enviado")
	return nil
}

// Close cierra el producer.
func (p *Publisher) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("cerrar producer kafka: %w", err)
	}
	return nil
}
