package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/segmentio/kafka-go"

	"github.com/granohq/accessd/internal/entity"
)

// Producer publishes security events. Writes are async and best-effort: a
// broker outage must never block or fail a decision.
type Producer struct {
	l             *slog.Logger
	w             *kafka.Writer
	securityTopic string
}

func NewProducer(l *slog.Logger, brokers []string, topic string) *Producer {
	l = l.WithGroup("kafka").With("topic", topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "",
		Balancer:               &kafka.LeastBytes{},
		Async:                  true,
		Compression:            0,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		l:             l,
		w:             w,
		securityTopic: topic,
	}
}

type SecurityEvent struct {
	Type      string            `json:"type"`
	SubjectID string            `json:"subject_id"`
	Email     string            `json:"email,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

func (p *Producer) UserRegistered(ctx context.Context, userID uuid.UUID, email string) {
	p.publish(ctx, SecurityEvent{
		Type:      "user_registered",
		SubjectID: userID.String(),
		Email:     email,
		Timestamp: time.Now().Unix(),
	})
}

func (p *Producer) UserLogin(ctx context.Context, userID uuid.UUID, email string) {
	p.publish(ctx, SecurityEvent{
		Type:      "user_login",
		SubjectID: userID.String(),
		Email:     email,
		Timestamp: time.Now().Unix(),
	})
}

func (p *Producer) AccessDenied(ctx context.Context, subjectID uuid.UUID, policy entity.Policy, reason entity.Reason) {
	p.publish(ctx, SecurityEvent{
		Type:      "access_denied",
		SubjectID: subjectID.String(),
		Details: map[string]string{
			"reason": string(reason),
			"role":   policy.Role,
			"module": policy.Module,
			"action": string(policy.Action),
		},
		Timestamp: time.Now().Unix(),
	})
}

func (p *Producer) publish(ctx context.Context, event SecurityEvent) {
	b, err := json.Marshal(event)
	if err != nil {
		p.l.Error(fmt.Sprintf("marshal event: %s", err))
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("%s:%s", event.Type, event.SubjectID)),
		Value: b,
		Topic: p.securityTopic,
	})
	if err != nil {
		p.l.Error(fmt.Sprintf("write kafka message: %s", err))
		return
	}
}

func (p *Producer) Close() {
	err := p.w.Close()
	if err != nil {
		p.l.Error(fmt.Sprintf("close kafka writer: %s", err))
	}
}
