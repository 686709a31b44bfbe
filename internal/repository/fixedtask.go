package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"TON_rewards_miniapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type fixedTask struct {
	TaskID       uuid.UUID `db:"task_id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	PointsReward int       `db:"points_reward"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
}

type taskCatalogRow struct {
	fixedTask
	CompletedBy pq.Int64Array `db:"completed_by"`
}

// GetActiveTasksWithClaims returns the active catalog ordered by creation
// time together with the set of task IDs the user has already claimed.
func (r *Repository) GetActiveTasksWithClaims(ctx context.Context, telegramID int64) ([]*model.FixedTask, map[uuid.UUID]struct{}, error) {
	query := squirrel.Select(
		"ft.task_id",
		"ft.title",
		"ft.description",
		"ft.points_reward",
		"ft.is_active",
		"ft.created_at",
		"array_agg(uft.user_telegram_id) FILTER (WHERE uft.user_telegram_id IS NOT NULL) as completed_by",
	).
		From("fixed_tasks ft").
		LeftJoin("user_fixed_tasks uft ON uft.fixed_task_id = ft.task_id AND uft.user_telegram_id = ?", telegramID).
		Where(squirrel.Eq{"ft.is_active": true}).
		GroupBy("ft.task_id").
		OrderBy("ft.created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, nil, err
	}

	var rows []*taskCatalogRow
	err = r.db.SelectContext(ctx, &rows, sqlQuery, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*model.FixedTask{}, map[uuid.UUID]struct{}{}, nil
		}
		return nil, nil, err
	}

	tasks := make([]*model.FixedTask, len(rows))
	completed := make(map[uuid.UUID]struct{})
	for i, row := range rows {
		tasks[i] = &model.FixedTask{
			TaskID:       row.TaskID,
			Title:        row.Title,
			Description:  row.Description,
			PointsReward: row.PointsReward,
			IsActive:     row.IsActive,
			CreatedAt:    row.CreatedAt,
		}
		if len(row.CompletedBy) > 0 {
			completed[row.TaskID] = struct{}{}
		}
	}

	return tasks, completed, nil
}

func (r *Repository) GetTaskByID(ctx context.Context, taskID uuid.UUID) (*model.FixedTask, error) {
	query, args, err := squirrel.
		Select("task_id", "title", "description", "points_reward", "is_active", "created_at").
		From("fixed_tasks").
		Where(squirrel.Eq{"task_id": taskID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var task fixedTask
	err = r.db.GetContext(ctx, &task, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	return &model.FixedTask{
		TaskID:       task.TaskID,
		Title:        task.Title,
		Description:  task.Description,
		PointsReward: task.PointsReward,
		IsActive:     task.IsActive,
		CreatedAt:    task.CreatedAt,
	}, nil
}

func (r *Repository) HasClaimedTask(ctx context.Context, telegramID int64, taskID uuid.UUID) (bool, error) {
	query, args, err := squirrel.
		Select("1").
		From("user_fixed_tasks").
		Where(squirrel.Eq{
			"user_telegram_id": telegramID,
			"fixed_task_id":    taskID,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}

	var one int
	err = r.db.GetContext(ctx, &one, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// ClaimFixedTask inserts the claim row and credits the reward in a single
// transaction. The unique constraint on (user_telegram_id, fixed_task_id) is
// the source of truth against duplicate crediting; callers may pre-check for
// a friendlier early exit but must not rely on it.
func (r *Repository) ClaimFixedTask(ctx context.Context, telegramID int64, taskID uuid.UUID) (int, error) {
	var reward int

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Select("points_reward", "is_active").
			From("fixed_tasks").
			Where(squirrel.Eq{"task_id": taskID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		var task struct {
			PointsReward int  `db:"points_reward"`
			IsActive     bool `db:"is_active"`
		}
		err = tx.GetContext(ctx, &task, query, args...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTaskNotFound
			}
			return err
		}
		if !task.IsActive {
			return ErrTaskInactive
		}

		insertQuery, insertArgs, err := squirrel.
			Insert("user_fixed_tasks").
			SetMap(map[string]interface{}{
				"user_telegram_id": telegramID,
				"fixed_task_id":    taskID,
				"completed_at":     time.Now().UTC(),
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, insertQuery, insertArgs...)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case pgUniqueViolation:
					return ErrTaskAlreadyClaimed
				case pgForeignKeyViolation:
					return ErrNotFound
				}
			}
			return fmt.Errorf("failed to insert claim: %w", err)
		}

		if err := r.updateUserPointsWithTx(ctx, tx, telegramID, task.PointsReward); err != nil {
			return err
		}

		reward = task.PointsReward
		return nil
	})
	if err != nil {
		return 0, err
	}

	return reward, nil
}

func (r *Repository) CreateFixedTask(ctx context.Context, task *model.FixedTask) error {
	query, args, err := squirrel.
		Insert("fixed_tasks").
		SetMap(map[string]interface{}{
			"task_id":       task.TaskID,
			"title":         task.Title,
			"description":   task.Description,
			"points_reward": task.PointsReward,
			"is_active":     task.IsActive,
			"created_at":    time.Now().UTC(),
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build task insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert fixed task: %w", err)
	}

	return nil
}

func (r *Repository) SetTaskActive(ctx context.Context, taskID uuid.UUID, active bool) error {
	query, args, err := squirrel.
		Update("fixed_tasks").
		Set("is_active", active).
		Where(squirrel.Eq{"task_id": taskID}).
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
		return ErrTaskNotFound
	}

	return nil
}
