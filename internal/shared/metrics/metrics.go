package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	applicationsSubmittedTotal atomic.Uint64
	feedbackSubmittedTotal     atomic.Uint64
	interviewsScheduledTotal   atomic.Uint64

	statusUpdates       = newLabeledCounter()
	notificationsSent   = newLabeledCounter()
	notificationsFailed = newLabeledCounter()

	notificationDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000})
)

// IncApplicationSubmitted counts a persisted application.
func IncApplicationSubmitted() {
	applicationsSubmittedTotal.Add(1)
}

// IncStatusUpdate counts a status write, labeled by the resulting status.
func IncStatusUpdate(status string) {
	statusUpdates.Inc(status)
}

// IncFeedbackSubmitted counts a persisted feedback record.
func IncFeedbackSubmitted() {
	feedbackSubmittedTotal.Add(1)
}

// IncInterviewScheduled counts a created interview.
func IncInterviewScheduled() {
	interviewsScheduledTotal.Add(1)
}

// IncNotificationSent counts a delivered email by template.
func IncNotificationSent(template string) {
	notificationsSent.Inc(template)
}

// IncNotificationFailed counts a failed email by template.
func IncNotificationFailed(template string) {
	notificationsFailed.Inc(template)
}

// ObserveNotificationDurationMs records how long one send took.
func ObserveNotificationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	notificationDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "applications_submitted_total", "Total applications submitted", applicationsSubmittedTotal.Load())
	writeLabeledCounter(&buf, "application_status_updates_total", "Application status writes by status", "status", statusUpdates.Snapshot())
	writeCounter(&buf, "interviews_scheduled_total", "Total interviews created", interviewsScheduledTotal.Load())
	writeCounter(&buf, "feedback_submitted_total", "Total feedback records submitted", feedbackSubmittedTotal.Load())
	writeLabeledCounter(&buf, "notifications_sent_total", "Emails delivered by template", "template", notificationsSent.Snapshot())
	writeLabeledCounter(&buf, "notifications_failed_total", "Emails that failed by template", "template", notificationsFailed.Snapshot())
	writeHistogram(&buf, "notification_duration_ms", "Email send duration in milliseconds", notificationDuration.Snapshot())
	return buf.String()
}

type labeledCounter struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newLabeledCounter() *labeledCounter {
	return &labeledCounter{values: make(map[string]uint64)}
}

func (l *labeledCounter) Inc(label string) {
	l.mu.Lock()
	l.values[label]++
	l.mu.Unlock()
}

func (l *labeledCounter) Snapshot() map[string]uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]uint64, len(l.values))
	for k, v := range l.values {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe records value in the first bucket that holds it; Render accumulates.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
