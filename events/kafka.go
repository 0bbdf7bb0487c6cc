package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/senara-eco/senara-api/models"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const orderTopic = "order-events"

// Event types carried in the message key as "order.<type>.<orderID>".
const (
	OrderCreated       = "created"
	OrderCancelled     = "cancelled"
	OrderStatusChanged = "status_changed"
)

type OrderEvent struct {
	Type      string             `json:"type"`
	OrderID   uint               `json:"order_id"`
	OrderRef  string             `json:"order_ref"`
	UserID    string             `json:"user_id"`
	Status    models.OrderStatus `json:"status"`
	Total     float64            `json:"total"`
	Timestamp time.Time          `json:"timestamp"`
}

var writer *kafka.Writer

// InitKafka wires the order-event writer. Publishing is disabled when
// KAFKA_BROKERS is unset, which is the default in development and tests.
func InitKafka() {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		logger.Info().Msg("KAFKA_BROKERS not set, order event publishing disabled")
		return
	}
	writer = &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
		Topic:                  orderTopic,
		Balancer:               &kafka.LeastBytes{}, // Balancer for selecting partition
		AllowAutoTopicCreation: true,
	}
}

// CloseKafka flushes and closes the writer, if one was configured.
func CloseKafka() {
	if writer != nil {
		writer.Close()
	}
}

// PublishOrderEvent fans the event out to websocket clients and, when
// configured, to Kafka. Delivery is best effort: the order flow never fails
// because an event could not be published.
func PublishOrderEvent(eventType string, order models.Order) {
	event := OrderEvent{
		Type:      eventType,
		OrderID:   order.ID,
		OrderRef:  order.OrderRef,
		UserID:    order.UserID,
		Status:    order.Status,
		Total:     order.Total,
		Timestamp: time.Now(),
	}

	broadcast(event)

	if writer == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("order.%s.%d", eventType, order.ID)),
		Value: payload,
	})
	if err != nil {
		logger.Error().Err(err).Msgf("Failed to publish order event %s for order %d", eventType, order.ID)
	}
}
