package users

import (
	"context"

	"interviewhub/internal/shared/auth"
)

// Repo persists users. Create returns ErrEmailTaken for a duplicate email.
type Repo interface {
	Create(ctx context.Context, user User) error
	Update(ctx context.Context, user User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// ListByIDs returns the users that exist, in the order of ids.
	ListByIDs(ctx context.Context, ids []string) ([]User, error)
	// ListByRole lists users with role, or everyone when role is empty.
	ListByRole(ctx context.Context, role auth.Role) ([]User, error)
}
