package user

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// StubRepo is an in-memory Repo implementation for tests.
type StubRepo struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewStubRepo() *StubRepo {
	return &StubRepo{users: make(map[string]User)}
}

func (r *StubRepo) CreateUser(ctx context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.Id == "" {
		user.Id = uuid.New().String()
	}
	r.users[user.Id] = user
	return user, nil
}

func (r *StubRepo) GetUser(ctx context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *StubRepo) GetAllUsers(ctx context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

func (r *StubRepo) UpdateUser(ctx context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Id]; !ok {
		return User{}, ErrUserNotFound
	}
	r.users[user.Id] = user
	return user, nil
}

func (r *StubRepo) DeleteUser(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}
