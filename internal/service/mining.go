package service

import (
	"context"
	"errors"
	"fmt"

	"TON_rewards_miniapp/internal/model"
	"TON_rewards_miniapp/internal/repository"
)

type MiningService struct {
	repo MiningRepository
}

func NewMiningService(repo MiningRepository) *MiningService {
	return &MiningService{
		repo: repo,
	}
}

func (s *MiningService) Start(ctx context.Context, telegramID int64) error {
	if _, err := s.repo.GetUserByTelegramID(ctx, telegramID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to resolve user: %w", err)
	}

	err := s.repo.StartMining(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrMiningInProgress) {
			return ErrMiningInProgress
		}
		return fmt.Errorf("failed to start mining: %w", err)
	}
	return nil
}

func (s *MiningService) Status(ctx context.Context, telegramID int64) (*model.MiningStatus, error) {
	status, err := s.repo.MiningStatus(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mining status: %w", err)
	}
	return status, nil
}

func (s *MiningService) Claim(ctx context.Context, telegramID int64) (int, error) {
	minutes, err := s.repo.ClaimMining(ctx, telegramID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMiningNotStarted):
			return 0, ErrMiningNotStarted
		case errors.Is(err, repository.ErrNotFound):
			return 0, ErrUserNotFound
		default:
			return 0, fmt.Errorf("failed to claim mining session: %w", err)
		}
	}
	return minutes, nil
}
