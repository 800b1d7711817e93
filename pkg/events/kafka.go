package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Envelope is the wire form used by the Kafka sink and the event journal.
type Envelope struct {
	Type Type            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// NewEnvelope wraps an event for transport. Marshal failures cannot happen
// for the record types in this package, so the error is returned only for
// foreign Event implementations.
func NewEnvelope(e Event) (Envelope, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: e.EventType(), Data: data}, nil
}

// KafkaSink publishes events to a Kafka topic. Emit enqueues without
// blocking the caller; a background loop does the actual writes so a slow or
// unreachable broker never stalls matching. When the queue is full the event
// is dropped and counted.
type KafkaSink struct {
	writer *kafka.Writer
	queue  chan Envelope
	done   chan struct{}
	log    *zap.Logger
}

func NewKafkaSink(brokers []string, topic string, log *zap.Logger) *KafkaSink {
	s := &KafkaSink{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
		queue: make(chan Envelope, 1024),
		done:  make(chan struct{}),
		log:   log,
	}
	go s.run()
	return s
}

func (s *KafkaSink) Emit(e Event) {
	env, err := NewEnvelope(e)
	if err != nil {
		s.log.Error("kafka_event_marshal_failed", zap.Error(err))
		return
	}
	select {
	case s.queue <- env:
	default:
		s.log.Warn("kafka_event_dropped", zap.String("type", string(env.Type)))
	}
}

func (s *KafkaSink) run() {
	defer close(s.done)
	for env := range s.queue {
		value, _ := json.Marshal(env)
		msg := kafka.Message{Key: []byte(env.Type), Value: value}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.writer.WriteMessages(ctx, msg); err != nil {
			s.log.Error("kafka_publish_failed", zap.String("type", string(env.Type)), zap.Error(err))
		}
		cancel()
	}
}

// Close drains the queue and shuts down the writer.
func (s *KafkaSink) Close() error {
	close(s.queue)
	<-s.done
	return s.writer.Close()
}
