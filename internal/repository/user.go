package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"TON_rewards_miniapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type User struct {
	TelegramID       int64     `db:"telegram_id"`
	AuthID           uuid.UUID `db:"auth_id"`
	Username         string    `db:"username"`
	ReferrerID       *int64    `db:"referrer_id"`
	Referrals        int       `db:"referrals"`
	Points           int       `db:"points"`
	TotalMinutes     int       `db:"total_minutes"`
	WalletAddress    *string   `db:"wallet_address"`
	IsAdmin          bool      `db:"is_admin"`
	RegistrationDate time.Time `db:"registration_date"`
	AuthDate         time.Time `db:"last_auth_date"`
}

type userReferral struct {
	TelegramID       int64  `db:"telegram_id"`
	TelegramUsername string `db:"username"`
	ReferralCount    int    `db:"referrals"`
	Points           int    `db:"points"`
}

// CreateUser registers a user keyed by telegram_id. Registration is
// idempotent: a pre-existing row is left untouched and no referral edge is
// written for the repeated call.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Insert("users").
			SetMap(map[string]interface{}{
				"telegram_id":       user.TelegramID,
				"auth_id":           user.AuthID,
				"username":          user.Username,
				"referrer_id":       user.ReferrerID,
				"registration_date": user.RegistrationDate,
				"last_auth_date":    user.AuthDate,
				"points":            user.Points,
				"total_minutes":     user.TotalMinutes,
				"referrals":         user.Referrals,
			}).
			Suffix("ON CONFLICT (telegram_id) DO NOTHING").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build user insert query: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if rows == 0 {
			// Already registered.
			return nil
		}

		if user.ReferrerID != nil {
			updateQuery, updateArgs, err := squirrel.
				Update("users").
				Set("referrals", squirrel.Expr("referrals + 1")).
				Where(squirrel.Eq{"telegram_id": user.ReferrerID}).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build referrer update query: %w", err)
			}

			_, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
			if err != nil {
				return fmt.Errorf("failed to update referrer: %w", err)
			}

			if err := createReferralWithTx(ctx, tx, *user.ReferrerID, user.TelegramID); err != nil {
				return fmt.Errorf("failed to create referral edge: %w", err)
			}
		}

		bonusQuery, bonusArgs, err := squirrel.
			Insert("daily_bonuses").
			SetMap(map[string]interface{}{
				"user_telegram_id":         user.TelegramID,
				"consecutive_days_claimed": 0,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build daily bonus insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, bonusQuery, bonusArgs...)
		if err != nil {
			return fmt.Errorf("failed to insert daily bonus: %w", err)
		}

		return nil
	})
}

func (r *Repository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (u *User) toModel() *model.User {
	return &model.User{
		TelegramID:       u.TelegramID,
		AuthID:           u.AuthID,
		Username:         u.Username,
		ReferrerID:       u.ReferrerID,
		Referrals:        u.Referrals,
		Points:           u.Points,
		TotalMinutes:     u.TotalMinutes,
		WalletAddress:    u.WalletAddress,
		IsAdmin:          u.IsAdmin,
		RegistrationDate: u.RegistrationDate,
		AuthDate:         u.AuthDate,
	}
}

func (r *Repository) getUserWithTx(ctx context.Context, tx *sqlx.Tx, telegramID int64) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = tx.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (r *Repository) UpdateUserPoints(ctx context.Context, telegramID int64, points int) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		return r.updateUserPointsWithTx(ctx, tx, telegramID, points)
	})
}

func (r *Repository) updateUserPointsWithTx(ctx context.Context, tx *sqlx.Tx, telegramID int64, points int) error {
	user, err := r.getUserWithTx(ctx, tx, telegramID)
	if err != nil {
		return err
	}

	updateQuery, updateArgs, err := squirrel.
		Update("users").
		Set("points", squirrel.Expr("points + ?", points)).
		Where(squirrel.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
	if err != nil {
		return err
	}

	if user.ReferrerID != nil {
		// Referrers earn 10% of every point credit made to their referrals.
		referrerPoints := int(math.Ceil(float64(points) * 0.1))

		updateReferrerQuery, referrerArgs, err := squirrel.
			Update("users").
			Set("points", squirrel.Expr("points + ?", referrerPoints)).
			Where(squirrel.Eq{"telegram_id": user.ReferrerID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, updateReferrerQuery, referrerArgs...)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) AddUserMinutes(ctx context.Context, telegramID int64, minutes int) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		return r.addUserMinutesWithTx(ctx, tx, telegramID, minutes)
	})
}

func (r *Repository) addUserMinutesWithTx(ctx context.Context, tx *sqlx.Tx, telegramID int64, minutes int) error {
	query, args, err := squirrel.
		Update("users").
		Set("total_minutes", squirrel.Expr("total_minutes + ?", minutes)).
		Where(squirrel.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, query, args...)
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

func (r *Repository) SetWalletAddress(ctx context.Context, telegramID int64, address string) error {
	query, args, err := squirrel.
		Update("users").
		Set("wallet_address", address).
		Where(squirrel.Eq{"telegram_id": telegramID}).
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

func (r *Repository) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	query, args, err := squirrel.
		Select("telegram_id", "username", "points", "total_minutes", "referrals").
		From("users").
		OrderBy("points DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var users []User
	err = r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, err
	}

	userList := make([]*model.User, len(users))
	for i, user := range users {
		userList[i] = &model.User{
			TelegramID:   user.TelegramID,
			Username:     user.Username,
			Points:       user.Points,
			TotalMinutes: user.TotalMinutes,
			Referrals:    user.Referrals,
		}
	}

	return userList, nil
}

func (r *Repository) GetUserReferrals(ctx context.Context, telegramID int64) ([]*model.UserReferral, error) {
	query := squirrel.Select(
		"telegram_id",
		"username",
		"referrals",
		"points",
	).
		From("users").
		Where(squirrel.Eq{"referrer_id": telegramID}).
		OrderBy("points DESC").
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var referrals []*userReferral
	err = r.db.SelectContext(ctx, &referrals, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get user referrals: %w", err)
	}

	refs := make([]*model.UserReferral, len(referrals))
	for i, ref := range referrals {
		refs[i] = &model.UserReferral{
			TelegramID:       ref.TelegramID,
			TelegramUsername: ref.TelegramUsername,
			ReferralCount:    ref.ReferralCount,
			Points:           ref.Points,
		}
	}

	return refs, nil
}
