package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"experience-nv/logger"
)

// KafkaEventBus is the confluent-kafka-go backed EventBus.
type KafkaEventBus struct {
	Producer *kafka.Producer
	Brokers  string
}

// NewKafkaEventBus initializes the shared producer.
func NewKafkaEventBus(brokers string) (*KafkaEventBus, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5,
	})
	if err != nil {
		return nil, fmt.Errorf("creating kafka producer: %w", err)
	}

	// Drain delivery reports so the producer queue never backs up.
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logger.Log.Errorf("kafka delivery failed %v: %v", ev.TopicPartition, ev.TopicPartition.Error)
				}
			case kafka.Error:
				logger.Log.Errorf("kafka error: %v", ev)
			}
		}
	}()

	return &KafkaEventBus{
		Producer: p,
		Brokers:  brokers,
	}, nil
}

// Close flushes outstanding messages and shuts the producer down.
func (k *KafkaEventBus) Close() {
	if k.Producer != nil {
		if remaining := k.Producer.Flush(5000); remaining > 0 {
			logger.Log.Warnf("%d kafka messages still unflushed at shutdown", remaining)
		}
		k.Producer.Close()
		logger.Log.Info("kafka producer closed")
	}
}

// Publish sends one event to the given topic and waits for delivery.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	defer close(deliveryChan)

	err = k.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            []byte(event.ID),
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("producing message: %w", err)
	}

	select {
	case ev := <-deliveryChan:
		m := ev.(*kafka.Message)
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivering message: %w", m.TopicPartition.Error)
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

// Subscribe consumes the base topic with manual commits; events whose
// handler fails are parked on the DLQ and the offset is committed so
// the partition keeps moving.
func (k *KafkaEventBus) Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  k.Brokers,
		"group.id":           groupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
	})
	if err != nil {
		return fmt.Errorf("creating kafka consumer: %w", err)
	}
	defer c.Close()

	if err := c.SubscribeTopics([]string{topic.Base()}, nil); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic.Base(), err)
	}

	logger.Log.Infof("consumer (%s) started on topic %s", groupID, topic.Base())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := c.ReadMessage(500 * time.Millisecond)
		if err != nil {
			if kerr, ok := err.(kafka.Error); ok && kerr.Code() == kafka.ErrTimedOut {
				continue
			}
			logger.Log.Errorf("kafka read failed: %v", err)
			continue
		}

		var event Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Log.Errorf("undecodable event on %s, dropping: %v", topic.Base(), err)
			_, _ = c.CommitMessage(msg)
			continue
		}

		if err := handler(ctx, event); err != nil {
			logger.Log.Errorf("handler failed for event %s: %v", event.ID, err)
			event.LastError = err.Error()
			if dlqErr := k.Publish(ctx, topic.DLQ(), event); dlqErr != nil {
				logger.Log.Errorf("%v: event %s: %v", ErrDLQPublishFailed, event.ID, dlqErr)
			}
		}
		if _, err := c.CommitMessage(msg); err != nil {
			logger.Log.Errorf("commit failed: %v", err)
		}
	}
}
