package feedback

import (
	"strings"
	"time"

	"interviewhub/internal/applications"
	"interviewhub/internal/users"
)

type Recommendation string

const (
	StronglyRecommend    Recommendation = "Strongly Recommend"
	Recommend            Recommendation = "Recommend"
	Neutral              Recommendation = "Neutral"
	NotRecommend         Recommendation = "Not Recommend"
	StronglyNotRecommend Recommendation = "Strongly Not Recommend"
)

var recommendations = []Recommendation{StronglyRecommend, Recommend, Neutral, NotRecommend, StronglyNotRecommend}

func ParseRecommendation(raw string) (Recommendation, bool) {
	raw = strings.TrimSpace(raw)
	for _, r := range recommendations {
		if strings.EqualFold(raw, string(r)) {
			return r, true
		}
	}
	return "", false
}

const (
	MinScore = 1
	MaxScore = 10
)

// Feedback is one interviewer's evaluation of one application. It is never
// modified after creation.
type Feedback struct {
	ID            string                    `json:"id"`
	ApplicationID string                    `json:"applicationId"`
	Application   *applications.Application `json:"application,omitempty"`
	InterviewID   string                    `json:"interviewId"`
	InterviewerID string                    `json:"interviewerId"`
	Interviewer   *users.Contact            `json:"interviewer,omitempty"`

	TechnicalSkills     *int           `json:"technicalSkills,omitempty"`
	CommunicationSkills *int           `json:"communicationSkills,omitempty"`
	ProblemSolving      *int           `json:"problemSolving,omitempty"`
	CultureFit          *int           `json:"cultureFit,omitempty"`
	OverallRating       int            `json:"overallRating"`
	Comments            string         `json:"comments,omitempty"`
	Recommendation      Recommendation `json:"recommendation"`
	CreatedAt           time.Time      `json:"createdAt"`
}

type Filter struct {
	ApplicationID string
	InterviewerID string
	InterviewID   string
}
