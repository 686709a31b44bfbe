package service

import (
	"context"
	"errors"
	"fmt"

	"TON_rewards_miniapp/internal/model"
	"TON_rewards_miniapp/internal/repository"

	"github.com/google/uuid"
	"github.com/xssnick/tonutils-go/address"
)

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// RegisterUser creates the user row if absent. Repeated registration for the
// same telegram_id is a no-op, so callers may retry freely.
func (s *UserService) RegisterUser(ctx context.Context, user *model.User) error {
	if user.AuthID == uuid.Nil {
		user.AuthID = uuid.New()
	}

	err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	return nil
}

func (s *UserService) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by telegram ID: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateUserPoints(ctx context.Context, telegramID int64, points int) error {
	err := s.repo.UpdateUserPoints(ctx, telegramID, points)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update user points: %w", err)
	}
	return nil
}

// ConnectWallet stores the user's TON wallet address after parsing it with
// tonutils. Both friendly (EQ.../UQ...) and raw (0:<hex>) forms are accepted.
func (s *UserService) ConnectWallet(ctx context.Context, telegramID int64, walletAddress string) error {
	if _, err := address.ParseAddr(walletAddress); err != nil {
		if _, rawErr := address.ParseRawAddr(walletAddress); rawErr != nil {
			return ErrInvalidWalletAddress
		}
	}

	err := s.repo.SetWalletAddress(ctx, telegramID, walletAddress)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to set wallet address: %w", err)
	}
	return nil
}

func (s *UserService) GetUserReferrals(ctx context.Context, telegramID int64) ([]*model.UserReferral, error) {
	referrals, err := s.repo.GetUserReferrals(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user referrals: %w", err)
	}
	return referrals, nil
}

func (s *UserService) GetLeaderboard(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.GetTopUsers(ctx, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}
	return users, nil
}
