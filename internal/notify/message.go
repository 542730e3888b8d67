package notify

import (
	"errors"
	"strings"
	"time"
)

// Template names one of the transactional emails.
type Template string

const (
	TemplateVerificationCode    Template = "verification_code"
	TemplateApplicationReceived Template = "application_received"
	TemplateInterviewScheduled  Template = "interview_scheduled"
)

// Person is a named email address.
type Person struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// JobSummary is the part of a job posting quoted in emails.
type JobSummary struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location,omitempty"`
	Type     string `json:"type,omitempty"`
}

// InterviewDetails is what a candidate needs to attend an interview.
type InterviewDetails struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Time         string    `json:"time"`
	Mode         string    `json:"mode"`
	MeetingLink  string    `json:"meetingLink,omitempty"`
	Location     string    `json:"location,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Interviewers []Person  `json:"interviewers"`
}

// Message is a template name plus the data it renders. It is also the
// payload carried over the queue transport.
type Message struct {
	Template Template `json:"template"`
	To       Person   `json:"to"`

	Code      string        `json:"code,omitempty"`
	ExpiresIn time.Duration `json:"expiresIn,omitempty"`

	Job           *JobSummary       `json:"job,omitempty"`
	ApplicationID string            `json:"applicationId,omitempty"`
	Status        string            `json:"status,omitempty"`
	AppliedAt     time.Time         `json:"appliedAt,omitempty"`
	Interview     *InterviewDetails `json:"interview,omitempty"`
}

// Validate checks the fields the template needs.
func (m Message) Validate() error {
	if strings.TrimSpace(m.To.Email) == "" {
		return errors.New("recipient email is required")
	}
	switch m.Template {
	case TemplateVerificationCode:
		if m.Code == "" {
			return errors.New("verification code is required")
		}
	case TemplateApplicationReceived:
		if m.Job == nil {
			return errors.New("job is required")
		}
	case TemplateInterviewScheduled:
		if m.Job == nil || m.Interview == nil {
			return errors.New("job and interview are required")
		}
	default:
		return errors.New("unknown template " + string(m.Template))
	}
	return nil
}
