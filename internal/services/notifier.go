package services

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-user-auth/internal/logger"
)

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// emailJob is the payload published for the mail worker to render and send.
type emailJob struct {
	Type  string `json:"type"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

const (
	emailJobVerify        = "verify_email"
	emailJobResetPassword = "reset_password"
)

// KafkaEmailNotifier publishes email jobs to Kafka. Sending is
// fire-and-forget: a publish failure is logged but never fails the
// request that triggered it.
type KafkaEmailNotifier struct {
	writer KafkaWriter
}

// NewKafkaEmailNotifier creates a new KafkaEmailNotifier.
func NewKafkaEmailNotifier(writer KafkaWriter) *KafkaEmailNotifier {
	return &KafkaEmailNotifier{writer: writer}
}

func (n *KafkaEmailNotifier) publish(ctx context.Context, job emailJob) {
	if n.writer == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "type", job.Type, "email", job.Email)
		return
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Log.Errorw("Failed to marshal email job for Kafka", "type", job.Type, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(job.Email),
		Value: data,
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish email job to Kafka", "type", job.Type, "email", job.Email, "error", err)
	} else {
		logger.Log.Infow("Email job published to Kafka", "type", job.Type, "email", job.Email)
	}
}

// SendVerificationEmail publishes a verify-email job carrying the token
// the user must present back.
func (n *KafkaEmailNotifier) SendVerificationEmail(ctx context.Context, email, name, token string) {
	n.publish(ctx, emailJob{
		Type:  emailJobVerify,
		Email: email,
		Name:  name,
		Token: token,
	})
}

// SendPasswordResetEmail publishes a reset-password job.
func (n *KafkaEmailNotifier) SendPasswordResetEmail(ctx context.Context, email, name, token string) {
	n.publish(ctx, emailJob{
		Type:  emailJobResetPassword,
		Email: email,
		Name:  name,
		Token: token,
	})
}
