package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DRSN-tech/affiliate-catalog/internal/cfg"
	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/DRSN-tech/affiliate-catalog/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// TrackingMessage — формат события трекинга в топике.
type TrackingMessage struct {
	EventID    string           `json:"event_id"`
	Type       domain.EventType `json:"type"`
	LinkID     string           `json:"link_id"`
	UserID     string           `json:"user_id,omitempty"`
	OrderID    string           `json:"order_id,omitempty"`
	OrderValue *decimal.Decimal `json:"order_value,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// Producer публикует события трекинга в Kafka. Ключом сообщения служит id ссылки,
// поэтому события одной ссылки попадают в одну партицию.
type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 2 * time.Second,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}
}

func (p *Producer) Publish(ctx context.Context, event *domain.TrackingEvent) error {
	value, err := Payload(event)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.LinkID),
		Value: value,
		Time:  event.OccurredAt,
	}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// EnsureTopic создаёт топик, если его ещё нет.
func (p *Producer) EnsureTopic(timeout time.Duration) error {
	conn, err := kafka.Dial(p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(p.cfg.Topic)
	if err == nil && len(partitions) > 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.CreateTopics(kafka.TopicConfig{
			Topic:             p.cfg.Topic,
			NumPartitions:     p.cfg.Partitions,
			ReplicationFactor: p.cfg.ReplicationFactor,
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
		}
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.Topic))
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Payload сериализует событие. Сумма заказа передаётся только для конверсий.
func Payload(event *domain.TrackingEvent) ([]byte, error) {
	msg := TrackingMessage{
		EventID:    event.EventID,
		Type:       event.Type,
		LinkID:     event.LinkID,
		UserID:     event.UserID,
		OrderID:    event.OrderID,
		OccurredAt: event.OccurredAt,
	}
	if event.Type == domain.EventConversion {
		value := event.OrderValue
		msg.OrderValue = &value
	}

	return json.Marshal(msg)
}

// LogPublisher заменяет Kafka, когда брокеры не настроены: события только пишутся в лог.
type LogPublisher struct {
	logger logger.Logger
}

func NewLogPublisher(logger logger.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (l *LogPublisher) Publish(_ context.Context, event *domain.TrackingEvent) error {
	l.logger.Debugf("tracking event %s: type=%s link=%s", event.EventID, event.Type, event.LinkID)
	return nil
}
