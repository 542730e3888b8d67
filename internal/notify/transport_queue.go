package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"interviewhub/internal/queue"
)

// QueueKind tags queue messages that carry a notification.
const QueueKind = "notification"

// QueueTransport enqueues messages for the notifier worker instead of sending
// them in-process.
type QueueTransport struct {
	Client queue.Client
	now    func() time.Time
}

func NewQueueTransport(client queue.Client) *QueueTransport {
	return &QueueTransport{Client: client, now: time.Now}
}

func (q *QueueTransport) Deliver(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	now := time.Now
	if q.now != nil {
		now = q.now
	}
	return q.Client.Send(ctx, queue.Message{
		ID:         uuid.NewString(),
		Kind:       QueueKind,
		EnqueuedAt: now().UTC().Format(time.RFC3339),
		Payload:    payload,
	})
}

// DecodeQueued extracts the notification carried by a queue message.
func DecodeQueued(m queue.Message) (Message, error) {
	if m.Kind != QueueKind {
		return Message{}, fmt.Errorf("unexpected queue message kind %q", m.Kind)
	}
	var msg Message
	if err := json.Unmarshal(m.Payload, &msg); err != nil {
		return Message{}, fmt.Errorf("decode notification: %w", err)
	}
	return msg, msg.Validate()
}

var _ Transport = (*QueueTransport)(nil)
