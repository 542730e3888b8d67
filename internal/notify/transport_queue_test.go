package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewhub/internal/queue"
)

type fakeQueue struct {
	sent []queue.Message
}

func (f *fakeQueue) Send(ctx context.Context, msg queue.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

func TestQueueTransportRoundTrip(t *testing.T) {
	q := &fakeQueue{}
	transport := NewQueueTransport(q)

	in := Message{
		Template:  TemplateApplicationReceived,
		To:        Person{Name: "Asha", Email: "asha@example.com"},
		Job:       &JobSummary{Title: "SRE", Company: "Acme"},
		AppliedAt: time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, transport.Deliver(context.Background(), in))
	require.Len(t, q.sent, 1)
	assert.Equal(t, QueueKind, q.sent[0].Kind)
	assert.NotEmpty(t, q.sent[0].ID)

	out, err := DecodeQueued(q.sent[0])
	require.NoError(t, err)
	assert.Equal(t, in.To, out.To)
	assert.Equal(t, in.Job.Title, out.Job.Title)
	assert.True(t, in.AppliedAt.Equal(out.AppliedAt))
}

func TestDecodeQueuedRejectsOtherKinds(t *testing.T) {
	_, err := DecodeQueued(queue.Message{Kind: "audit", Payload: []byte(`{}`)})
	assert.Error(t, err)
}
