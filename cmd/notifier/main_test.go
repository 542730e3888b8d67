package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"interviewhub/internal/notify"
	"interviewhub/internal/queue"
)

type fakeAcker struct {
	deleted []string
}

func (f *fakeAcker) Delete(ctx context.Context, receiptHandle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if receiptHandle == "" {
		return errors.New("missing receipt handle")
	}
	f.deleted = append(f.deleted, receiptHandle)
	return nil
}

type recordingTransport struct {
	delivered []notify.Message
	err       error
}

func (r *recordingTransport) Deliver(ctx context.Context, msg notify.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.err != nil {
		return r.err
	}
	r.delivered = append(r.delivered, msg)
	return nil
}

func queuedBody(t *testing.T, msg notify.Message) string {
	t.Helper()
	payload, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body, err := queue.EncodeMessage(queue.Message{ID: "q1", Kind: notify.QueueKind, Payload: payload})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(body)
}

func verificationMessage() notify.Message {
	return notify.Message{
		Template: notify.TemplateVerificationCode,
		To:       notify.Person{Name: "Ana", Email: "ana@example.com"},
		Code:     "123456",
	}
}

func TestNotifierDeletesMessageOnSuccess(t *testing.T) {
	client := &fakeAcker{}
	transport := &recordingTransport{}
	msg := sqstypes.Message{
		MessageId:     aws.String("m1"),
		ReceiptHandle: aws.String("r1"),
		Body:          aws.String(queuedBody(t, verificationMessage())),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}

	handleMessage(context.Background(), client, transport, msg)

	if len(transport.delivered) != 1 || transport.delivered[0].Code != "123456" {
		t.Fatalf("unexpected deliveries: %+v", transport.delivered)
	}
	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
}

func TestNotifierKeepsMessageOnSendFailure(t *testing.T) {
	client := &fakeAcker{}
	transport := &recordingTransport{err: errors.New("smtp down")}
	msg := sqstypes.Message{
		MessageId:     aws.String("m2"),
		ReceiptHandle: aws.String("r2"),
		Body:          aws.String(queuedBody(t, verificationMessage())),
	}

	handleMessage(context.Background(), client, transport, msg)

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %d", len(client.deleted))
	}
}

func TestNotifierDropsInvalidMessages(t *testing.T) {
	client := &fakeAcker{}
	transport := &recordingTransport{}

	bad := verificationMessage()
	bad.To.Email = ""
	for i, body := range []string{"{bad-json", queuedBody(t, bad)} {
		msg := sqstypes.Message{
			MessageId:     aws.String("m3"),
			ReceiptHandle: aws.String("r" + string(rune('a'+i))),
			Body:          aws.String(body),
		}
		handleMessage(context.Background(), client, transport, msg)
	}

	if len(client.deleted) != 2 {
		t.Fatalf("expected 2 deletes, got %d", len(client.deleted))
	}
	if len(transport.delivered) != 0 {
		t.Fatalf("expected no deliveries, got %d", len(transport.delivered))
	}
}

func TestNotifierFinishesInFlightSendAfterShutdown(t *testing.T) {
	client := &fakeAcker{}
	transport := &recordingTransport{}
	msg := sqstypes.Message{
		MessageId:     aws.String("m4"),
		ReceiptHandle: aws.String("r4"),
		Body:          aws.String(queuedBody(t, verificationMessage())),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runTask(ctx, time.Second, func(taskCtx context.Context) {
		handleMessage(taskCtx, client, transport, msg)
	})

	if len(transport.delivered) != 1 {
		t.Fatalf("expected delivery after shutdown, got %d", len(transport.delivered))
	}
	if len(client.deleted) != 1 || client.deleted[0] != "r4" {
		t.Fatalf("expected delete after shutdown, got %v", client.deleted)
	}
}

func TestRunTaskAppliesTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	runTask(context.Background(), time.Minute, func(taskCtx context.Context) {
		deadline, ok = taskCtx.Deadline()
	})
	if !ok || time.Until(deadline) > time.Minute {
		t.Fatalf("expected task deadline within a minute, got %v %v", deadline, ok)
	}
}
