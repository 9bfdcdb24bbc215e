package events

import (
	"context"
	"encoding/json"
	"fleet-dashboard/internal/domain"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// KafkaSink appends change events to a topic for downstream consumers
// (reporting, audit).
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
	log      logrus.FieldLogger
}

func NewKafkaSink(brokers []string, topic string, log logrus.FieldLogger) (*KafkaSink, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	log.WithField("topic", topic).Info("kafka producer created")
	return NewKafkaSinkWithProducer(producer, topic, log), nil
}

func NewKafkaSinkWithProducer(producer sarama.SyncProducer, topic string, log logrus.FieldLogger) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic, log: log}
}

func (k *KafkaSink) Close() error {
	return k.producer.Close()
}

func (k *KafkaSink) Publish(ctx context.Context, evt domain.ChangeEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("publish event: marshal: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(evt.ID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(evt.Type)},
			{Key: []byte("timestamp"), Value: []byte(evt.At.Format(time.RFC3339))},
		},
	}

	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send event to topic %s: %w", k.topic, err)
	}

	k.log.WithFields(logrus.Fields{
		"topic":      k.topic,
		"partition":  partition,
		"offset":     offset,
		"event_type": evt.Type,
		"event_id":   evt.ID,
	}).Debug("event published")
	return nil
}
