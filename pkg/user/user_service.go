package user

import (
	"context"
	"errors"
	"fmt"
)

var ErrUserNotFound = errors.New("user not found")

// Provider exposes read access to the current user without pulling in the full
// Service surface.
type Provider interface {
	GetCurrentUser(ctx context.Context) (User, error)
}

type Service interface {
	Provider
	GetUserById(ctx context.Context, id string) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	UpdateCurrentUser(ctx context.Context, user User) (User, error)
	GetAvailableUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo Repo
}

func NewUserService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	return CurrentUser(ctx)
}

func (s *ServiceImpl) GetUserById(ctx context.Context, id string) (User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *ServiceImpl) CreateUser(ctx context.Context, user User) (User, error) {
	if user.Username == "" {
		return User{}, fmt.Errorf("username is required")
	}
	return s.repo.CreateUser(ctx, user)
}

func (s *ServiceImpl) UpdateCurrentUser(ctx context.Context, user User) (User, error) {
	current, err := CurrentUser(ctx)
	if err != nil {
		return User{}, err
	}
	user.Id = current.Id
	return s.repo.UpdateUser(ctx, user)
}

func (s *ServiceImpl) GetAvailableUsers(ctx context.Context) ([]User, error) {
	return s.repo.GetAllUsers(ctx)
}

func (s *ServiceImpl) DeleteUser(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}
