package applications

import (
	"strings"
	"time"

	"interviewhub/internal/interviews"
	"interviewhub/internal/jobs"
	"interviewhub/internal/resumes"
	"interviewhub/internal/users"
)

type Status string

// Statuses follow Applied, Under Review, Interview Scheduled, then a decision,
// but any value may be set at any time.
const (
	StatusApplied            Status = "Applied"
	StatusUnderReview        Status = "Under Review"
	StatusInterviewScheduled Status = "Interview Scheduled"
	StatusSelected           Status = "Selected"
	StatusRejected           Status = "Rejected"
	StatusOnHold             Status = "On Hold"
)

var statuses = []Status{
	StatusApplied,
	StatusUnderReview,
	StatusInterviewScheduled,
	StatusSelected,
	StatusRejected,
	StatusOnHold,
}

func ParseStatus(raw string) (Status, bool) {
	for _, s := range statuses {
		if strings.EqualFold(strings.TrimSpace(raw), string(s)) {
			return s, true
		}
	}
	return "", false
}

type Application struct {
	ID          string                `json:"id"`
	JobID       string                `json:"jobId"`
	Job         *jobs.Job             `json:"job,omitempty"`
	ApplicantID string                `json:"applicantId"`
	Applicant   *users.Contact        `json:"applicant,omitempty"`
	Resume      resumes.Artifact      `json:"resume"`
	CoverLetter string                `json:"coverLetter,omitempty"`
	Status      Status                `json:"status"`
	InterviewID string                `json:"interviewId,omitempty"`
	Interview   *interviews.Interview `json:"interview,omitempty"`
	AppliedAt   time.Time             `json:"appliedAt"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	JobID       string
	ApplicantID string
	Status      Status
	InterviewID string
}
