package jobs

import (
	"strings"
	"time"

	"interviewhub/internal/users"
)

type Type string

const (
	TypeFullTime   Type = "Full-time"
	TypePartTime   Type = "Part-time"
	TypeContract   Type = "Contract"
	TypeInternship Type = "Internship"
)

var types = []Type{TypeFullTime, TypePartTime, TypeContract, TypeInternship}

// ParseType accepts a job type name, case-insensitively. Empty means Full-time.
func ParseType(raw string) (Type, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TypeFullTime, true
	}
	for _, t := range types {
		if strings.EqualFold(raw, string(t)) {
			return t, true
		}
	}
	return "", false
}

type Salary struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

type Job struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Company      string         `json:"company"`
	Location     string         `json:"location"`
	Type         Type           `json:"type"`
	Requirements []string       `json:"requirements"`
	Salary       *Salary        `json:"salary,omitempty"`
	PostedBy     string         `json:"postedById"`
	Poster       *users.Contact `json:"postedBy,omitempty"`
	IsActive     bool           `json:"isActive"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	Search     string
	Type       Type
	Location   string
	PostedBy   string
	ActiveOnly bool
}
