package notify

import (
	"context"
	"errors"
	"time"

	"interviewhub/internal/shared/metrics"
	"interviewhub/internal/shared/telemetry"
)

// Dispatcher builds messages for the three lifecycle emails and hands them to
// a Transport. Every send returns its error; callers decide whether to care.
type Dispatcher struct {
	Transport Transport
	now       func() time.Time
}

func NewDispatcher(t Transport) *Dispatcher {
	return &Dispatcher{Transport: t, now: time.Now}
}

// SendVerificationCode emails a registration passcode.
func (d *Dispatcher) SendVerificationCode(ctx context.Context, to Person, code string, expiresIn time.Duration) error {
	return d.send(ctx, Message{
		Template:  TemplateVerificationCode,
		To:        to,
		Code:      code,
		ExpiresIn: expiresIn,
	})
}

// SendApplicationReceived confirms a submitted application to the applicant.
func (d *Dispatcher) SendApplicationReceived(ctx context.Context, to Person, job JobSummary, applicationID, status string, appliedAt time.Time) error {
	return d.send(ctx, Message{
		Template:      TemplateApplicationReceived,
		To:            to,
		Job:           &job,
		ApplicationID: applicationID,
		Status:        status,
		AppliedAt:     appliedAt,
	})
}

// SendInterviewScheduled announces an interview and lists every interviewer.
func (d *Dispatcher) SendInterviewScheduled(ctx context.Context, to Person, job JobSummary, interview InterviewDetails) error {
	return d.send(ctx, Message{
		Template:  TemplateInterviewScheduled,
		To:        to,
		Job:       &job,
		Interview: &interview,
	})
}

func (d *Dispatcher) send(ctx context.Context, msg Message) error {
	if d == nil || d.Transport == nil {
		return errors.New("notification transport not configured")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	now := time.Now
	if d.now != nil {
		now = d.now
	}
	start := now()
	err := d.Transport.Deliver(ctx, msg)
	metrics.ObserveNotificationDurationMs(float64(now().Sub(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncNotificationFailed(string(msg.Template))
		return err
	}
	metrics.IncNotificationSent(string(msg.Template))
	telemetry.Info("notify.sent", map[string]any{
		"template": string(msg.Template),
		"to":       msg.To.Email,
	})
	return nil
}
