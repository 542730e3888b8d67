package users

import (
	"time"

	"interviewhub/internal/shared/auth"
)

type User struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	Role           auth.Role  `json:"role"`
	Phone          string     `json:"phone,omitempty"`
	ProfilePicture string     `json:"profilePicture,omitempty"`
	EmailVerified  bool       `json:"isEmailVerified"`
	OTPCode        string     `json:"-"`
	OTPExpiresAt   *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Contact is the public slice of a user embedded in other resources.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

func (u User) Contact() Contact {
	return Contact{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

func (u User) Actor() auth.Actor {
	return auth.Actor{ID: u.ID, Role: u.Role}
}
