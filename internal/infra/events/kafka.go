package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
)

const (
	headerEventID   = "event_id"
	headerEventType = "event_type"
	headerBookingID = "booking_id"
)

// MessageWriter часть kafka.Writer, используемая издателем
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Metrics счетчик опубликованных событий
type Metrics interface {
	EventPublished(eventType string, err error)
}

// KafkaPublisher публикует события в один топик.
// Ключ сообщения - ID артиста, поэтому события одного артиста упорядочены внутри партиции.
type KafkaPublisher struct {
	writer  MessageWriter
	metrics Metrics
	now     func() time.Time
}

// NewKafkaPublisher создает издателя с kafka.Writer для brokers (через запятую)
func NewKafkaPublisher(brokers, topic string) *KafkaPublisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  SplitBrokers(brokers),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	})
	return NewKafkaPublisherWithWriter(writer)
}

// NewKafkaPublisherWithWriter создает издателя поверх произвольного writer
func NewKafkaPublisherWithWriter(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, now: time.Now}
}

// WithMetrics включает учет публикаций
func (p *KafkaPublisher) WithMetrics(m Metrics) *KafkaPublisher {
	p.metrics = m
	return p
}

func (p *KafkaPublisher) observe(eventType string, err error) {
	if p.metrics != nil {
		p.metrics.EventPublished(eventType, err)
	}
}

// PublishBooking публикует событие бронирования
func (p *KafkaPublisher) PublishBooking(ctx context.Context, eventType string, b *domain.Booking) error {
	payload, err := bookingPayload(b, p.now())
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", eventType, err)
	}

	msg := newMessage(ctx, eventType, b.ArtistID, payload)
	msg.Headers = append(msg.Headers, kafka.Header{Key: headerBookingID, Value: []byte(bookingKey(b.ID))})

	err = p.writer.WriteMessages(ctx, msg)
	p.observe(eventType, err)
	if err != nil {
		return fmt.Errorf("events: publish %s booking=%d: %w", eventType, b.ID, err)
	}
	return nil
}

// PublishAvailability публикует событие изменения доступности
func (p *KafkaPublisher) PublishAvailability(ctx context.Context, artistID string, dates []time.Time) error {
	payload, err := availabilityPayload(artistID, dates, p.now())
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", TypeAvailabilityUpdated, err)
	}

	err = p.writer.WriteMessages(ctx, newMessage(ctx, TypeAvailabilityUpdated, artistID, payload))
	p.observe(TypeAvailabilityUpdated, err)
	if err != nil {
		return fmt.Errorf("events: publish %s artist=%s: %w", TypeAvailabilityUpdated, artistID, err)
	}
	return nil
}

// Close закрывает writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func newMessage(ctx context.Context, eventType, key string, payload []byte) kafka.Message {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: headerEventID, Value: []byte(uuid.NewString())},
			{Key: headerEventType, Value: []byte(eventType)},
		},
	}
	msg.Headers = injectTraceHeaders(ctx, msg.Headers)
	return msg
}

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// HeaderValue возвращает значение заголовка сообщения
func HeaderValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func injectTraceHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	carrier := &headerCarrier{headers: headers}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier.headers
}

type headerCarrier struct {
	headers []kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	return HeaderValue(c.headers, key)
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

func (c *headerCarrier) Set(key, value string) {
	for i := range c.headers {
		if c.headers[i].Key == key {
			c.headers[i].Value = []byte(value)
			return
		}
	}
	c.headers = append(c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

var _ propagation.TextMapCarrier = (*headerCarrier)(nil)
