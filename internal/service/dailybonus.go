package service

import (
	"context"
	"errors"
	"time"

	"TON_rewards_miniapp/internal/model"
	"TON_rewards_miniapp/internal/repository"
)

const BaseMinutes = 30

// Streak bonuses for days 1-7. Day 8 wraps back to day 1.
var DailyBonusMinutes = []int{0, 10, 20, 30, 40, 50, 60}

type DailyBonusService struct {
	repo DailyBonusRepository
}

func NewDailyBonusService(repo DailyBonusRepository) *DailyBonusService {
	return &DailyBonusService{
		repo: repo,
	}
}

func (s *DailyBonusService) GetStatus(ctx context.Context, telegramID int64) (*model.DailyBonus, error) {
	bonus, err := s.repo.GetDailyBonusStatus(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	hasNeverBeenClaimed := bonus.LastClaimedAt == nil

	status := &model.DailyBonus{
		UserTelegramID:         telegramID,
		LastClaimedAt:          bonus.LastClaimedAt,
		ConsecutiveDaysClaimed: bonus.ConsecutiveDaysClaimed,
		HasNeverBeenClaimed:    hasNeverBeenClaimed,
		DailyRewards:           make([]model.DayReward, 7),
	}

	if hasNeverBeenClaimed {
		status.NextClaimAvailable = nil
		status.IsAvailable = true
		status.ConsecutiveDaysClaimed = 0
	} else {
		nextClaimAvailable := bonus.LastClaimedAt.Add(24 * time.Hour)
		status.NextClaimAvailable = &nextClaimAvailable
		status.IsAvailable = now.After(*status.NextClaimAvailable)

		// Missing a full day breaks the streak.
		if now.After(nextClaimAvailable.Add(24 * time.Hour)) {
			status.ConsecutiveDaysClaimed = 0

			err = s.repo.UpdateDailyBonusStatus(ctx, &model.DailyBonus{
				UserTelegramID:         telegramID,
				LastClaimedAt:          bonus.LastClaimedAt,
				ConsecutiveDaysClaimed: 0,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	for i := 0; i < 7; i++ {
		status.DailyRewards[i] = model.DayReward{
			Day:     i + 1,
			Minutes: BaseMinutes + DailyBonusMinutes[i],
		}
	}

	return status, nil
}

func (s *DailyBonusService) Claim(ctx context.Context, telegramID int64) error {
	status, err := s.GetStatus(ctx, telegramID)
	if err != nil {
		return err
	}

	if !status.IsAvailable {
		return ErrClaimNotAvailable
	}

	now := time.Now().UTC()
	newConsecutiveDays := status.ConsecutiveDaysClaimed + 1
	if newConsecutiveDays > 7 {
		newConsecutiveDays = 1
	}

	reward := BaseMinutes + DailyBonusMinutes[newConsecutiveDays-1]

	err = s.repo.UpdateDailyBonusStatus(ctx, &model.DailyBonus{
		UserTelegramID:         telegramID,
		LastClaimedAt:          &now,
		ConsecutiveDaysClaimed: newConsecutiveDays,
	})
	if err != nil {
		return err
	}

	err = s.repo.AddUserMinutes(ctx, telegramID, reward)
	if err != nil {
		return err
	}

	return nil
}
