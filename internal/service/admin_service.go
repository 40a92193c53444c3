package service

import (
	"context"
	"fmt"
	"strings"

	"deuda_tracker/internal/model"
	"deuda_tracker/internal/repository"
	"deuda_tracker/internal/utils"
)

// AdminService covers admin-only user management. New users and password
// resets hand out a generated temp password; the hash stored is always the
// current PBKDF2 encoding.
type AdminService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, username, role string) (*model.User, string, error)
	ResetPassword(ctx context.Context, userID int) (string, error)
}

type adminService struct {
	users repository.UserRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(users repository.UserRepository) AdminService {
	return &adminService{users: users}
}

// ListUsers returns all users, most recently created first.
func (s *adminService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser registers a user with a generated temp password and returns
// both. Usernames are stored lowercase; role defaults to USER.
func (s *adminService) CreateUser(ctx context.Context, username, role string) (*model.User, string, error) {
	name := strings.ToLower(strings.TrimSpace(username))
	if len(name) < 3 || len(name) > 40 {
		return nil, "", validationErr("username must be 3-40 characters")
	}
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, "", validationErr("role must be USER or ADMIN")
	}

	existing, err := s.users.FindByUsername(ctx, name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", fmt.Errorf("%w: username already exists", ErrConflict)
	}

	tempPassword, err := utils.NewTempPassword()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate temp password: %w", err)
	}
	passwordHash, err := utils.HashPassword(tempPassword)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     name,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}
	return user, tempPassword, nil
}

// ResetPassword replaces the user's password with a fresh temp password and
// returns it.
func (s *adminService) ResetPassword(ctx context.Context, userID int) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return "", fmt.Errorf("%w: user does not exist", ErrNotFound)
	}

	tempPassword, err := utils.NewTempPassword()
	if err != nil {
		return "", fmt.Errorf("failed to generate temp password: %w", err)
	}
	passwordHash, err := utils.HashPassword(tempPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, passwordHash); err != nil {
		return "", fmt.Errorf("failed to update password hash: %w", err)
	}
	return tempPassword, nil
}
