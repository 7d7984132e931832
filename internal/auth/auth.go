package auth

import (
	"context"
	"fmt"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Repository resolves a chat-platform user id to a role. A nil role
// means the user is unknown.
type Repository interface {
	FindRole(ctx context.Context, userID int64) (*Role, error)
}

// Service performs the capability check the bot runs before dispatching
// any handler. A user is allowed when a role is on record and, if a
// specific role is required, the roles match.
type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Authorize(ctx context.Context, userID int64, required Role) (bool, error) {
	role, err := s.repo.FindRole(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("find role for %d: %w", userID, err)
	}
	if role == nil {
		return false, nil
	}
	if required != "" && *role != required {
		return false, nil
	}
	return true, nil
}
