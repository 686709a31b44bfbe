package service

import (
	"context"
	"testing"

	"TON_rewards_miniapp/internal/model"
	"TON_rewards_miniapp/internal/repository"
	"TON_rewards_miniapp/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type stubVerifier struct {
	result      bool
	calledFrom  string
	calledTo    string
	calledTON   float64
	timesCalled int
}

func (v *stubVerifier) VerifyPayment(_ context.Context, fromAddress string, amountTON float64, toAddress string) bool {
	v.timesCalled++
	v.calledFrom = fromAddress
	v.calledTON = amountTON
	v.calledTo = toAddress
	return v.result
}

func TestPaymentService_VerifyDeposit(t *testing.T) {
	const adminWallet = "0:bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

	t.Run("explicit wallet address", func(t *testing.T) {
		mockRepo := &mocks.MockUserRepository{}
		verifier := &stubVerifier{result: true}
		svc := NewPaymentService(mockRepo, verifier, adminWallet)

		confirmed, err := svc.VerifyDeposit(context.Background(), 100, "0:aaaa", 5)

		assert.NoError(t, err)
		assert.True(t, confirmed)
		assert.Equal(t, "0:aaaa", verifier.calledFrom)
		assert.Equal(t, adminWallet, verifier.calledTo)
		assert.Equal(t, float64(5), verifier.calledTON)
		mockRepo.AssertNotCalled(t, "GetUserByTelegramID")
	})

	t.Run("falls back to connected wallet", func(t *testing.T) {
		wallet := "0:dddd"
		mockRepo := &mocks.MockUserRepository{}
		mockRepo.On("GetUserByTelegramID", mock.Anything, int64(100)).
			Return(&model.User{TelegramID: 100, WalletAddress: &wallet}, nil)
		verifier := &stubVerifier{result: false}
		svc := NewPaymentService(mockRepo, verifier, adminWallet)

		confirmed, err := svc.VerifyDeposit(context.Background(), 100, "", 2)

		assert.NoError(t, err)
		assert.False(t, confirmed)
		assert.Equal(t, wallet, verifier.calledFrom)
		mockRepo.AssertExpectations(t)
	})

	t.Run("user not found", func(t *testing.T) {
		mockRepo := &mocks.MockUserRepository{}
		mockRepo.On("GetUserByTelegramID", mock.Anything, int64(100)).
			Return(nil, repository.ErrNotFound)
		svc := NewPaymentService(mockRepo, &stubVerifier{}, adminWallet)

		_, err := svc.VerifyDeposit(context.Background(), 100, "", 2)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("wallet not connected", func(t *testing.T) {
		mockRepo := &mocks.MockUserRepository{}
		mockRepo.On("GetUserByTelegramID", mock.Anything, int64(100)).
			Return(&model.User{TelegramID: 100}, nil)
		verifier := &stubVerifier{}
		svc := NewPaymentService(mockRepo, verifier, adminWallet)

		_, err := svc.VerifyDeposit(context.Background(), 100, "", 2)

		assert.ErrorIs(t, err, ErrWalletNotConnected)
		assert.Zero(t, verifier.timesCalled)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		svc := NewPaymentService(&mocks.MockUserRepository{}, &stubVerifier{}, adminWallet)

		_, err := svc.VerifyDeposit(context.Background(), 100, "0:aaaa", 0)

		assert.Error(t, err)
	})
}
