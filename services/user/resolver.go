package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	userRepo "edubooking/database/repository/user"
	"edubooking/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultIdentityResolver binds anonymous bookings to an account keyed by email.
type DefaultIdentityResolver struct {
	Repo   userRepo.UserRepository
	logger *zap.Logger
}

func NewIdentityResolver(repo userRepo.UserRepository, logger *zap.Logger) *DefaultIdentityResolver {
	return &DefaultIdentityResolver{Repo: repo, logger: logger}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Resolve returns the account registered under contact.Email, provisioning an
// inactive pending account when none exists.
func (r *DefaultIdentityResolver) Resolve(ctx context.Context, contact models.ContactDetails) (*models.User, error) {
	email := NormalizeEmail(contact.Email)
	if email == "" {
		return nil, fmt.Errorf("contact email is required")
	}

	existing, err := r.Repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, userRepo.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	pending := &models.User{
		ID:     uuid.New().String(),
		Email:  email,
		Name:   strings.TrimSpace(contact.Name),
		Phone:  strings.TrimSpace(contact.Phone),
		Role:   models.RoleMember,
		Status: models.UserStatusPending,
		Active: false,
	}
	if err := r.Repo.Create(ctx, pending); err != nil {
		if errors.Is(err, userRepo.ErrDuplicateEmail) {
			// Lost a race with a concurrent booking for the same email.
			return r.Repo.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("failed to provision pending user: %w", err)
	}

	r.logger.Info("Provisioned pending user for anonymous booking", zap.String("userID", pending.ID))
	return pending, nil
}
