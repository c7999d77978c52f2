package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "cafeteria/internal/errors"
	"cafeteria/internal/model"
	"cafeteria/internal/repository"
)

func TestUserService(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, "client-1").Return(testClient, nil)
	repo.On("FindByID", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)
	repo.On("List", mock.Anything).Return([]model.User{*testClient, *testChef}, nil)

	service := NewUserService(repo, nil)

	user, err := service.GetUser(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)

	_, err = service.GetUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	users, err := service.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
