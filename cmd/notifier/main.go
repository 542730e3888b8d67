package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"interviewhub/internal/bootstrap"
	"interviewhub/internal/notify"
	"interviewhub/internal/queue"
	"interviewhub/internal/shared/config"
	"interviewhub/internal/shared/metrics"
	"interviewhub/internal/shared/telemetry"
)

const (
	defaultVisibilitySeconds = 120
	defaultConcurrency       = 4
)

func main() {
	cfg := config.Load()

	queueURL := strings.TrimSpace(cfg.NotifyQueueURL)
	if queueURL == "" {
		log.Fatal("NOTIFY_SQS_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	visibilitySeconds := envInt("NOTIFIER_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)
	concurrency := envInt("NOTIFIER_CONCURRENCY", defaultConcurrency)

	consumer, err := queue.NewSQSClient(ctx, cfg.AWSRegion, queueURL)
	if err != nil {
		log.Fatalf("build sqs client: %v", err)
	}

	mailer, err := bootstrap.BuildMailer(ctx, cfg, cfg.NotifierSender)
	if err != nil {
		log.Fatalf("build mailer: %v", err)
	}

	sem := make(chan struct{}, max(1, concurrency))
	var wg sync.WaitGroup

	log.Printf("notifier started queue=%s sender=%s concurrency=%d", queueURL, cfg.NotifierSender, concurrency)

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		msgs, err := consumer.Receive(ctx, queue.ReceiveOptions{
			MaxMessages:       10,
			WaitSeconds:       20,
			VisibilitySeconds: int32(visibilitySeconds),
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			log.Printf("receive message: %v", err)
			continue
		}

		for _, msg := range msgs {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				runTask(ctx, cfg.NotifyTimeout, func(taskCtx context.Context) {
					handleMessage(taskCtx, consumer, mailer, m)
				})
			}(msg)
		}
	}

	log.Printf("shutdown requested, waiting up to %s for in-flight sends", cfg.ShutdownTimeout)
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(cfg.ShutdownTimeout):
		log.Printf("shutdown timeout reached; exiting with in-flight sends")
	}
}

type acker interface {
	Delete(ctx context.Context, receiptHandle string) error
}

// runTask detaches fn from shutdown so an in-flight send can finish while the
// drain waits. timeout still bounds it.
func runTask(ctx context.Context, timeout time.Duration, fn func(context.Context)) {
	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	fn(taskCtx)
}

// handleMessage delivers one queued notification. Undecodable messages are
// dropped; failed sends stay on the queue until SQS redrives them.
func handleMessage(ctx context.Context, client acker, transport notify.Transport, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)
	envelope, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		fields := baseFields(msg, "")
		fields["body_len"] = len(body)
		fields["error"] = err.Error()
		telemetry.Error("notifier.decode_failed", fields)
		deleteMessage(ctx, client, msg, "")
		return
	}
	notification, err := notify.DecodeQueued(envelope)
	if err != nil {
		fields := baseFields(msg, "")
		fields["kind"] = envelope.Kind
		fields["error"] = err.Error()
		telemetry.Error("notifier.decode_failed", fields)
		deleteMessage(ctx, client, msg, "")
		return
	}

	template := string(notification.Template)
	if err := transport.Deliver(ctx, notification); err != nil {
		fields := baseFields(msg, template)
		fields["error"] = err.Error()
		telemetry.Error("notifier.send_failed", fields)
		metrics.IncNotificationFailed(template)
		return
	}

	if deleteMessage(ctx, client, msg, template) {
		telemetry.Info("notifier.sent", baseFields(msg, template))
		metrics.IncNotificationSent(template)
	}
}

func deleteMessage(ctx context.Context, client acker, msg sqstypes.Message, template string) bool {
	if err := client.Delete(ctx, aws.ToString(msg.ReceiptHandle)); err != nil {
		fields := baseFields(msg, template)
		fields["error"] = err.Error()
		telemetry.Error("notifier.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, template string) map[string]any {
	fields := map[string]any{
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if template != "" {
		fields["template"] = template
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	if msg.Attributes == nil {
		return 0
	}
	parsed, err := strconv.Atoi(msg.Attributes["ApproximateReceiveCount"])
	if err != nil {
		return 0
	}
	return parsed
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
