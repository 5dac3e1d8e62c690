package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "teamboard/internal/errors"
	"teamboard/internal/model"
)

func TestUserService_GetProfile(t *testing.T) {
	userID := uuid.New()

	t.Run("returns the stored user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:    userID,
			Name:  "Alice",
			Email: "alice@example.com",
		}, nil)

		service := NewUserService(mockRepo, nil)
		user, err := service.GetProfile(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "Alice", user.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing user yields not found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		service := NewUserService(mockRepo, nil)
		user, err := service.GetProfile(context.Background(), userID)

		assert.Equal(t, apperrors.ErrUserNotFound, err)
		assert.Nil(t, user)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	userID := uuid.New()

	stored := func() *model.User {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("old-password"), 10)
		return &model.User{
			ID:           userID,
			Name:         "Alice",
			Email:        "alice@example.com",
			PasswordHash: string(hashed),
		}
	}

	t.Run("nil fields are left unchanged", func(t *testing.T) {
		original := stored()
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(original, nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		newName := "Alice Carter"
		service := NewUserService(mockRepo, nil)
		user, err := service.UpdateProfile(context.Background(), userID, UpdateProfileInput{Name: &newName})

		assert.NoError(t, err)
		assert.Equal(t, "Alice Carter", user.Name)
		assert.Equal(t, original.PasswordHash, user.PasswordHash)
		assert.Equal(t, "alice@example.com", user.Email)
		mockRepo.AssertExpectations(t)
	})

	t.Run("new password is hashed before storage", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(stored(), nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		newPassword := "new-password"
		service := NewUserService(mockRepo, nil)
		user, err := service.UpdateProfile(context.Background(), userID, UpdateProfileInput{Password: &newPassword})

		assert.NoError(t, err)
		assert.NotEqual(t, newPassword, user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(newPassword)))
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing user yields not found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		service := NewUserService(mockRepo, nil)
		_, err := service.UpdateProfile(context.Background(), userID, UpdateProfileInput{})

		assert.Equal(t, apperrors.ErrUserNotFound, err)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestUserService_Search(t *testing.T) {
	t.Run("results are reduced to summaries", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Search", mock.Anything, "ali").Return([]model.User{
			{ID: uuid.New(), Name: "Alice", Email: "alice@example.com", PasswordHash: "secret-hash"},
			{ID: uuid.New(), Name: "Alistair", Email: "alistair@example.com", PasswordHash: "secret-hash"},
		}, nil)

		service := NewUserService(mockRepo, nil)
		results, err := service.Search(context.Background(), "ali")

		assert.NoError(t, err)
		assert.Len(t, results, 2)
		assert.Equal(t, "Alice", results[0].Name)
		assert.Equal(t, "alice@example.com", results[0].Email)
		mockRepo.AssertExpectations(t)
	})

	t.Run("no matches yields an empty slice", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Search", mock.Anything, "zzz").Return([]model.User{}, nil)

		service := NewUserService(mockRepo, nil)
		results, err := service.Search(context.Background(), "zzz")

		assert.NoError(t, err)
		assert.Empty(t, results)
	})
}
