package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"TON_rewards_miniapp/internal/model"

	"github.com/jmoiron/sqlx"
)

// A mining session runs for up to 8 hours; minutes accrue linearly and are
// credited to total_minutes when the session is claimed.
const (
	MiningSessionDuration = 8 * time.Hour
	MiningSessionMinutes  = 480
)

func (r *Repository) StartMining(ctx context.Context, telegramID int64) error {
	r.Lock()
	defer r.Unlock()

	if _, exists := r.miningSessions[telegramID]; exists {
		return ErrMiningInProgress
	}

	startTime := time.Now().UTC()
	r.miningSessions[telegramID] = startTime

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO mining_sessions (user_telegram_id, last_started_at)
        VALUES ($1, $2)
        ON CONFLICT (user_telegram_id) DO UPDATE SET last_started_at = $2`,
		telegramID, startTime)
	if err != nil {
		delete(r.miningSessions, telegramID)
		return err
	}

	return nil
}

func (r *Repository) MiningStatus(ctx context.Context, telegramID int64) (*model.MiningStatus, error) {
	r.Lock()
	startTime, active := r.miningSessions[telegramID]
	r.Unlock()

	if !active {
		// Restore a session that was running before a restart.
		var lastStartedAt sql.NullTime
		err := r.db.QueryRowContext(ctx, `
            SELECT last_started_at
            FROM mining_sessions
            WHERE user_telegram_id = $1`,
			telegramID,
		).Scan(&lastStartedAt)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		if !lastStartedAt.Valid || time.Now().UTC().Sub(lastStartedAt.Time.UTC()) >= MiningSessionDuration {
			return &model.MiningStatus{Active: false}, nil
		}

		startTime = lastStartedAt.Time.UTC()
		r.Lock()
		r.miningSessions[telegramID] = startTime
		r.Unlock()
	}

	elapsed := time.Now().UTC().Sub(startTime)
	accrued := int(elapsed / time.Minute)
	if accrued > MiningSessionMinutes {
		accrued = MiningSessionMinutes
	}

	return &model.MiningStatus{
		Active:          true,
		MinutesAccrued:  accrued,
		SessionComplete: elapsed >= MiningSessionDuration,
		StartedAt:       &startTime,
	}, nil
}

// ClaimMining ends the session and credits the accrued minutes. The session
// row is the claim guard: deleting it and crediting the minutes happen in one
// transaction, so a session is credited exactly once and a failed credit
// leaves it claimable.
func (r *Repository) ClaimMining(ctx context.Context, telegramID int64) (int, error) {
	r.Lock()
	startTime, active := r.miningSessions[telegramID]
	r.Unlock()

	var minutes int
	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		var lastStartedAt sql.NullTime
		err := tx.QueryRowContext(ctx, `
            SELECT last_started_at
            FROM mining_sessions
            WHERE user_telegram_id = $1
            FOR UPDATE`,
			telegramID,
		).Scan(&lastStartedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMiningNotStarted
			}
			return err
		}

		if !active {
			if !lastStartedAt.Valid {
				return ErrMiningNotStarted
			}
			startTime = lastStartedAt.Time.UTC()
		}

		elapsed := time.Now().UTC().Sub(startTime)
		minutes = int(elapsed / time.Minute)
		if minutes > MiningSessionMinutes {
			minutes = MiningSessionMinutes
		}

		_, err = tx.ExecContext(ctx, `
            DELETE FROM mining_sessions
            WHERE user_telegram_id = $1`,
			telegramID)
		if err != nil {
			return err
		}

		if minutes > 0 {
			return r.addUserMinutesWithTx(ctx, tx, telegramID, minutes)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.Lock()
	delete(r.miningSessions, telegramID)
	r.Unlock()

	return minutes, nil
}
