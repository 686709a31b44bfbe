package service

import (
	"context"
	"errors"
	"fmt"

	"TON_rewards_miniapp/internal/model"
	"TON_rewards_miniapp/internal/repository"
)

type ReferralService struct {
	repo ReferralRepository
}

func NewReferralService(repo ReferralRepository) *ReferralService {
	return &ReferralService{
		repo: repo,
	}
}

// RegisterReferral records one pending edge. One insert attempt per call;
// duplicate and self-referral rejection come from the storage constraints.
func (s *ReferralService) RegisterReferral(ctx context.Context, referrerID, referredID int64) error {
	err := s.repo.CreateReferral(ctx, referrerID, referredID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateReferral):
			return ErrDuplicateReferral
		case errors.Is(err, repository.ErrSelfReferral):
			return ErrSelfReferral
		case errors.Is(err, repository.ErrNotFound):
			return ErrUserNotFound
		default:
			return fmt.Errorf("failed to register referral: %w", err)
		}
	}
	return nil
}

func (s *ReferralService) GetReferralsByReferrer(ctx context.Context, referrerID int64) ([]*model.Referral, error) {
	referrals, err := s.repo.GetReferralsByReferrer(ctx, referrerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get referrals: %w", err)
	}
	return referrals, nil
}
