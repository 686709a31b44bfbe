package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TON_rewards_miniapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// CreateReferral records one pending edge. Deduplication is owned by the
// unique constraint on (referrer_id, referred_id); this method only maps the
// violation to a sentinel.
func (r *Repository) CreateReferral(ctx context.Context, referrerID, referredID int64) error {
	if referrerID == referredID {
		return ErrSelfReferral
	}

	query, args, err := squirrel.
		Insert("referrals").
		SetMap(map[string]interface{}{
			"referrer_id": referrerID,
			"referred_id": referredID,
			"status":      string(model.ReferralPending),
			"created_at":  time.Now().UTC(),
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build referral insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return ErrDuplicateReferral
			case pgForeignKeyViolation:
				return ErrNotFound
			}
		}
		return fmt.Errorf("failed to insert referral: %w", err)
	}

	return nil
}

func createReferralWithTx(ctx context.Context, tx *sqlx.Tx, referrerID, referredID int64) error {
	query, args, err := squirrel.
		Insert("referrals").
		SetMap(map[string]interface{}{
			"referrer_id": referrerID,
			"referred_id": referredID,
			"status":      string(model.ReferralPending),
			"created_at":  time.Now().UTC(),
		}).
		Suffix("ON CONFLICT (referrer_id, referred_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

func (r *Repository) GetReferralsByReferrer(ctx context.Context, referrerID int64) ([]*model.Referral, error) {
	query, args, err := squirrel.
		Select("referrer_id", "referred_id", "status", "created_at").
		From("referrals").
		Where(squirrel.Eq{"referrer_id": referrerID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ReferrerID int64     `db:"referrer_id"`
		ReferredID int64     `db:"referred_id"`
		Status     string    `db:"status"`
		CreatedAt  time.Time `db:"created_at"`
	}
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	referrals := make([]*model.Referral, len(rows))
	for i, row := range rows {
		referrals[i] = &model.Referral{
			ReferrerID: row.ReferrerID,
			ReferredID: row.ReferredID,
			Status:     model.ReferralStatus(row.Status),
			CreatedAt:  row.CreatedAt,
		}
	}

	return referrals, nil
}
