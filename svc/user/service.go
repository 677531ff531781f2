package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcheck/fieldcheck/pkg/quota"
	"github.com/fieldcheck/fieldcheck/pkg/roles"
)

var ErrInvalidRole = errors.New("invalid user role")

// Service creates and manages users within a company's seat limits.
type Service struct {
	store Store
	gate  *quota.Gate
	log   *slog.Logger
}

// NewService creates a user service.
func NewService(store Store, gate *quota.Gate, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, gate: gate, log: log}
}

// Create adds a user to a company. The seat is authorized and consumed
// before the user record is written; a policy denial comes back as a
// *quota.DeniedError. Permissions are derived from the role here, at the
// call site, not by a persistence hook.
func (s *Service) Create(ctx context.Context, companyID uuid.UUID, email, name string, role roles.Role) (*User, error) {
	if !role.Valid() {
		return nil, errors.Join(ErrInvalidRole, fmt.Errorf("role %q", role))
	}

	decision, err := s.gate.Authorize(ctx, companyID, quota.OpAddSeat)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, quota.Denied(decision.Reason)
	}

	now := time.Now().UTC()
	u := &User{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Email:       email,
		Name:        name,
		Role:        role,
		Permissions: roles.DerivePermissions(role),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "created user",
		"company_id", companyID.String(), "user_id", u.ID.String(), "role", string(role))
	return u, nil
}

// ChangeRole updates a user's role and re-derives their permission set.
// Role changes consume no quota.
func (s *Service) ChangeRole(ctx context.Context, userID uuid.UUID, newRole roles.Role) (*User, error) {
	if !newRole.Valid() {
		return nil, errors.Join(ErrInvalidRole, fmt.Errorf("role %q", newRole))
	}

	u, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.Role = newRole
	u.Permissions = roles.DerivePermissions(newRole)
	u.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
