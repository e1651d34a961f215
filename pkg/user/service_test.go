package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user", func(t *testing.T) {
		service := NewUserService(NewStubRepo())

		created, err := service.CreateUser(ctx, User{Username: "jsmith", DisplayName: "J. Smith"})
		assert.NoError(t, err)
		assert.NotEmpty(t, created.Id)
	})

	t.Run("requires a username", func(t *testing.T) {
		service := NewUserService(NewStubRepo())

		_, err := service.CreateUser(ctx, User{DisplayName: "Nameless"})
		assert.Error(t, err)
	})
}

func TestUserService_UpdateCurrentUser(t *testing.T) {
	t.Run("updates the context user regardless of the payload id", func(t *testing.T) {
		// given
		repo := NewStubRepo()
		service := NewUserService(repo)
		existing, err := repo.CreateUser(context.Background(), User{Id: "u-1", Username: "jsmith"})
		assert.NoError(t, err)
		ctx := WithUser(context.Background(), existing)

		// when
		updated, err := service.UpdateCurrentUser(ctx, User{Id: "u-other", Username: "jsmith", DisplayName: "Jordan"})

		// then
		assert.NoError(t, err)
		assert.Equal(t, "u-1", updated.Id)
		stored, err := repo.GetUser(context.Background(), "u-1")
		assert.NoError(t, err)
		assert.Equal(t, "Jordan", stored.DisplayName)
	})

	t.Run("fails without a user in context", func(t *testing.T) {
		service := NewUserService(NewStubRepo())

		_, err := service.UpdateCurrentUser(context.Background(), User{Username: "jsmith"})
		assert.ErrorIs(t, err, ErrNoUser)
	})
}

func TestUserService_GetUserById(t *testing.T) {
	repo := NewStubRepo()
	service := NewUserService(repo)
	created, err := repo.CreateUser(context.Background(), User{Username: "jsmith"})
	assert.NoError(t, err)

	found, err := service.GetUserById(context.Background(), created.Id)
	assert.NoError(t, err)
	assert.Equal(t, created.Id, found.Id)

	_, err = service.GetUserById(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
