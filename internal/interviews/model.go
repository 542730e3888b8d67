package interviews

import (
	"strings"
	"time"

	"interviewhub/internal/jobs"
	"interviewhub/internal/users"
)

type Mode string

const (
	ModeInPerson  Mode = "In-person"
	ModeVideoCall Mode = "Video Call"
	ModePhone     Mode = "Phone"
)

type Status string

// Status is informational; nothing transitions it automatically.
const (
	StatusScheduled Status = "Scheduled"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

func ParseMode(raw string) (Mode, bool) {
	for _, m := range []Mode{ModeInPerson, ModeVideoCall, ModePhone} {
		if strings.EqualFold(strings.TrimSpace(raw), string(m)) {
			return m, true
		}
	}
	return "", false
}

func ParseStatus(raw string) (Status, bool) {
	for _, s := range []Status{StatusScheduled, StatusCompleted, StatusCancelled} {
		if strings.EqualFold(strings.TrimSpace(raw), string(s)) {
			return s, true
		}
	}
	return "", false
}

type Interview struct {
	ID             string          `json:"id"`
	JobID          string          `json:"jobId"`
	Job            *jobs.Job       `json:"job,omitempty"`
	ScheduledBy    string          `json:"scheduledById"`
	Scheduler      *users.Contact  `json:"scheduledBy,omitempty"`
	InterviewerIDs []string        `json:"interviewerIds"`
	Interviewers   []users.Contact `json:"interviewers,omitempty"`
	Date           time.Time       `json:"date"`
	Time           string          `json:"time"`
	Mode           Mode            `json:"mode"`
	MeetingLink    string          `json:"meetingLink,omitempty"`
	Location       string          `json:"location,omitempty"`
	Status         Status          `json:"status"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// HasInterviewer reports whether userID is on the panel.
func (iv Interview) HasInterviewer(userID string) bool {
	for _, id := range iv.InterviewerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Filter narrows List. IDs, when non-nil, restricts results to that set.
type Filter struct {
	ScheduledBy   string
	InterviewerID string
	JobID         string
	IDs           []string
}
