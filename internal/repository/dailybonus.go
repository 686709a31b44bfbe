package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"TON_rewards_miniapp/internal/model"

	"github.com/Masterminds/squirrel"
)

type dailyBonus struct {
	UserTelegramID         int64      `db:"user_telegram_id"`
	LastClaimedAt          *time.Time `db:"last_claimed_at"`
	ConsecutiveDaysClaimed int        `db:"consecutive_days_claimed"`
}

func (r *Repository) GetDailyBonusStatus(ctx context.Context, telegramID int64) (*model.DailyBonus, error) {
	if _, err := r.GetUserByTelegramID(ctx, telegramID); err != nil {
		return nil, err
	}

	query, args, err := squirrel.
		Select("user_telegram_id", "last_claimed_at", "consecutive_days_claimed").
		From("daily_bonuses").
		Where(squirrel.Eq{"user_telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var bonus dailyBonus
	err = r.db.GetContext(ctx, &bonus, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &model.DailyBonus{
		UserTelegramID:         bonus.UserTelegramID,
		LastClaimedAt:          bonus.LastClaimedAt,
		ConsecutiveDaysClaimed: bonus.ConsecutiveDaysClaimed,
	}, nil
}

func (r *Repository) UpdateDailyBonusStatus(ctx context.Context, bonus *model.DailyBonus) error {
	query, args, err := squirrel.
		Update("daily_bonuses").
		SetMap(map[string]interface{}{
			"last_claimed_at":          bonus.LastClaimedAt,
			"consecutive_days_claimed": bonus.ConsecutiveDaysClaimed,
		}).
		Where(squirrel.Eq{"user_telegram_id": bonus.UserTelegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
