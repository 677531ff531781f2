// Package user manages company members. Creating a user consumes a seat
// against the company's plan limits.
package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcheck/fieldcheck/pkg/roles"
)

var ErrUserNotFound = errors.New("user not found")

// User is a member of a company.
type User struct {
	ID          uuid.UUID           `json:"id"`
	CompanyID   uuid.UUID           `json:"company_id"`
	Email       string              `json:"email"`
	Name        string              `json:"name"`
	Role        roles.Role          `json:"role"`
	Permissions roles.PermissionSet `json:"permissions"`
	Department  string              `json:"department,omitempty"`
	PhoneNumber string              `json:"phone_number,omitempty"`
	Active      bool                `json:"active"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Store defines user persistence.
type Store interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	Save(ctx context.Context, u *User) error
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*User, error)
}
