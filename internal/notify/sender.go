package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/Shivanand-hulikatti/event-registration/internal/model"
)

// Sender dispatches a confirmation for a committed registration.
type Sender interface {
	Send(ctx context.Context, p model.Participant) error
}

// ConfirmationMessage is the payload handed to the confirmation transport.
type ConfirmationMessage struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	College string `json:"college"`
}

func newConfirmationMessage(p model.Participant) ConfirmationMessage {
	return ConfirmationMessage{ID: p.ID, Name: p.Name, Email: p.Email, College: p.College}
}

// LogSender only logs confirmations. It is used when no broker is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(_ context.Context, p model.Participant) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("confirmation queued", "participant_id", p.ID, "email", p.Email)
	return nil
}

// KafkaSender publishes confirmations to a topic consumed by the mailer.
type KafkaSender struct {
	client *kgo.Client
	topic  string
}

// NewKafkaSender connects a producer to brokers.
func NewKafkaSender(brokers []string, topic string) (*KafkaSender, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaSender{client: client, topic: topic}, nil
}

func (s *KafkaSender) Send(ctx context.Context, p model.Participant) error {
	record, err := confirmationRecord(s.topic, p)
	if err != nil {
		return err
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce confirmation: %w", err)
	}
	return nil
}

// Close flushes and closes the producer.
func (s *KafkaSender) Close() {
	s.client.Close()
}

func confirmationRecord(topic string, p model.Participant) (*kgo.Record, error) {
	value, err := json.Marshal(newConfirmationMessage(p))
	if err != nil {
		return nil, fmt.Errorf("encode confirmation: %w", err)
	}
	return &kgo.Record{
		Topic: topic,
		Key:   []byte(p.Email),
		Value: value,
	}, nil
}
