package service

import (
	"context"
	"testing"

	"TON_rewards_miniapp/internal/model"
	"TON_rewards_miniapp/internal/repository"
	"TON_rewards_miniapp/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserService_RegisterUser(t *testing.T) {
	mockRepo := &mocks.MockUserRepository{}
	mockRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.TelegramID == 100 && u.AuthID != uuid.Nil
	})).Return(nil)

	svc := NewUserService(mockRepo)
	user := &model.User{TelegramID: 100, Username: "alice"}

	err := svc.RegisterUser(context.Background(), user)

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.AuthID)
	mockRepo.AssertExpectations(t)
}

func TestUserService_GetUserByTelegramID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockRepo := &mocks.MockUserRepository{}
		mockRepo.On("GetUserByTelegramID", mock.Anything, int64(100)).
			Return(&model.User{TelegramID: 100, Points: 250}, nil)

		svc := NewUserService(mockRepo)
		user, err := svc.GetUserByTelegramID(context.Background(), 100)

		assert.NoError(t, err)
		assert.Equal(t, model.LevelSilver, user.MembershipLevel())
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := &mocks.MockUserRepository{}
		mockRepo.On("GetUserByTelegramID", mock.Anything, int64(100)).
			Return(nil, repository.ErrNotFound)

		svc := NewUserService(mockRepo)
		_, err := svc.GetUserByTelegramID(context.Background(), 100)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserService_ConnectWallet(t *testing.T) {
	t.Run("invalid address", func(t *testing.T) {
		mockRepo := &mocks.MockUserRepository{}
		svc := NewUserService(mockRepo)

		err := svc.ConnectWallet(context.Background(), 100, "not-a-wallet")

		assert.ErrorIs(t, err, ErrInvalidWalletAddress)
		mockRepo.AssertNotCalled(t, "SetWalletAddress")
	})

	t.Run("raw address accepted", func(t *testing.T) {
		raw := "0:0000000000000000000000000000000000000000000000000000000000000000"
		mockRepo := &mocks.MockUserRepository{}
		mockRepo.On("SetWalletAddress", mock.Anything, int64(100), raw).Return(nil)

		svc := NewUserService(mockRepo)
		err := svc.ConnectWallet(context.Background(), 100, raw)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}
