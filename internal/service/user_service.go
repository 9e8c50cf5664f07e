package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository"
)

type UserService struct {
	users repository.UserRepository
	log   *slog.Logger
}

func NewUserService(users repository.UserRepository, log *slog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "service.user.GetUser"

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// ChangeRole switches between renter and owner. It is allowed once per account.
func (s *UserService) ChangeRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.User, error) {
	const op = "service.user.ChangeRole"
	log := s.log.With(slog.String("op", op), slog.String("user_id", id.String()))

	if role != domain.RoleRenter && role != domain.RoleOwner {
		return nil, domain.Invalid("role must be renter or owner")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.RoleLocked {
		return nil, domain.Forbidden("role has already been changed")
	}

	user.Role = role
	user.RoleLocked = true
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("role changed", slog.String("role", string(role)))
	return user, nil
}
