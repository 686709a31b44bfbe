package service

import (
	"context"
	"testing"
	"time"

	"TON_rewards_miniapp/internal/model"
	"TON_rewards_miniapp/internal/repository"
	"TON_rewards_miniapp/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReferralService_RegisterReferral(t *testing.T) {
	tests := []struct {
		name        string
		repoErr     error
		expectedErr error
	}{
		{
			name: "success",
		},
		{
			name:        "duplicate referral",
			repoErr:     repository.ErrDuplicateReferral,
			expectedErr: ErrDuplicateReferral,
		},
		{
			name:        "self referral",
			repoErr:     repository.ErrSelfReferral,
			expectedErr: ErrSelfReferral,
		},
		{
			name:        "unknown user",
			repoErr:     repository.ErrNotFound,
			expectedErr: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockReferralRepository{}
			mockRepo.On("CreateReferral", mock.Anything, int64(1), int64(2)).
				Return(tt.repoErr)

			svc := NewReferralService(mockRepo)
			err := svc.RegisterReferral(context.Background(), 1, 2)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestReferralService_GetReferralsByReferrer(t *testing.T) {
	mockRepo := &mocks.MockReferralRepository{}
	mockRepo.On("GetReferralsByReferrer", mock.Anything, int64(1)).
		Return([]*model.Referral{
			{ReferrerID: 1, ReferredID: 2, Status: model.ReferralPending, CreatedAt: time.Now()},
		}, nil)

	svc := NewReferralService(mockRepo)
	referrals, err := svc.GetReferralsByReferrer(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, referrals, 1)
	assert.Equal(t, model.ReferralPending, referrals[0].Status)
}
