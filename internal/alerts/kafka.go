package alerts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/unan-salud/salud-al-paso/internal/records"
)

// KafkaNotifier writes alerts to a Kafka topic keyed by report id.
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(broker, topic string) (*KafkaNotifier, error) {
	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{writer: writer}, nil
}

func (n *KafkaNotifier) Notify(ctx context.Context, r records.EmergencyReport) error {
	payload, err := Encode(r)
	if err != nil {
		return err
	}
	if err := n.writer.WriteMessages(ctx, kafka.Message{Key: []byte(r.ID), Value: payload}); err != nil {
		return fmt.Errorf("write alert to kafka: %w", err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// KafkaListener consumes the alert topic as part of a consumer group.
type KafkaListener struct {
	reader *kafka.Reader
}

func NewKafkaListener(broker, topic, group string) *KafkaListener {
	return &KafkaListener{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: []string{broker},
			Topic:   topic,
			GroupID: group,
			MaxWait: 10 * time.Second,
		}),
	}
}

// Run hands every alert to handle until ctx is done. Read errors are retried
// after a pause.
func (l *KafkaListener) Run(ctx context.Context, handle func(Event)) error {
	log.Println("starting kafka alert listener")
	for {
		msg, err := l.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("kafka read error: %v (will retry)", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
			}
			continue
		}

		ev, err := Decode(msg.Value)
		if err != nil {
			log.Printf("skipping alert at offset=%d: %v", msg.Offset, err)
			continue
		}
		handle(ev)
	}
}

func (l *KafkaListener) Close() error {
	return l.reader.Close()
}
