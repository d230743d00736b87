package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// TicketEvent is the payload streamed for every ticket lifecycle
// change. TenantKey identifies the operator the ticket belongs to.
type TicketEvent struct {
	EventID   string `json:"event_id"`
	TenantKey string `json:"tenant_key"`
	TicketID  int64  `json:"ticket_id"`
	TripID    int64  `json:"trip_id"`
	SeatNo    int    `json:"seat_no"`
	PNR       string `json:"pnr"`
	Status    string `json:"status"`
}

type Producer struct {
	Writer *kafka.Writer
}

// NewProducer builds a producer without a fixed topic; each publish
// names its own.
func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer}
}

// Publish writes one message to the given topic.
func (p *Producer) Publish(topic, key string, value []byte) error {
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
}

// PublishTicketEvent streams a ticket lifecycle event, keyed by PNR so
// all events of one booking land in the same partition.
func (p *Producer) PublishTicketEvent(topic string, event TicketEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal ticket event: %w", err)
	}
	return p.Publish(topic, event.PNR, msgBytes)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
