package service

import (
	"context"
	"errors"
	"fmt"

	"TON_rewards_miniapp/internal/model"
	"TON_rewards_miniapp/internal/repository"

	"github.com/google/uuid"
)

type FixedTaskService struct {
	repo FixedTaskRepository
}

func NewFixedTaskService(repo FixedTaskRepository) *FixedTaskService {
	return &FixedTaskService{
		repo: repo,
	}
}

// GetFixedTasks returns the active catalog (creation order) and the caller's
// completed-task set. An empty catalog is a valid success.
func (s *FixedTaskService) GetFixedTasks(ctx context.Context, telegramID int64) ([]*model.FixedTask, map[uuid.UUID]struct{}, error) {
	if _, err := s.repo.GetUserByTelegramID(ctx, telegramID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	tasks, completed, err := s.repo.GetActiveTasksWithClaims(ctx, telegramID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get task catalog: %w", err)
	}

	return tasks, completed, nil
}

// ClaimFixedTask runs the ordered pre-checks and then the atomic claim. The
// pre-checks exist for friendly early exits only; two concurrent claims can
// both pass them, and the claim transaction's unique constraint decides the
// winner. Classified failures come back as a structured result alongside the
// matching sentinel, never as a bare raised error.
func (s *FixedTaskService) ClaimFixedTask(ctx context.Context, telegramID int64, taskID uuid.UUID) (*model.TaskClaimResult, error) {
	if _, err := s.repo.GetUserByTelegramID(ctx, telegramID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return failedClaim("User not found"), ErrUserNotFound
		}
		return failedClaim("database error: " + err.Error()), fmt.Errorf("failed to resolve user: %w", err)
	}

	task, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return failedClaim("Task not found or inactive"), ErrTaskNotFound
		}
		return failedClaim("database error: " + err.Error()), fmt.Errorf("failed to get task: %w", err)
	}
	if !task.IsActive {
		return failedClaim("Task not found or inactive"), ErrTaskNotFound
	}

	claimed, err := s.repo.HasClaimedTask(ctx, telegramID, taskID)
	if err != nil {
		return failedClaim("database error: " + err.Error()), fmt.Errorf("failed to check existing claim: %w", err)
	}
	if claimed {
		return failedClaim("Task already completed"), ErrTaskAlreadyCompleted
	}

	reward, err := s.repo.ClaimFixedTask(ctx, telegramID, taskID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTaskAlreadyClaimed):
			return failedClaim("Task already completed"), ErrTaskAlreadyCompleted
		case errors.Is(err, repository.ErrTaskNotFound), errors.Is(err, repository.ErrTaskInactive):
			return failedClaim("Task not found or inactive"), ErrTaskNotFound
		case errors.Is(err, repository.ErrNotFound):
			return failedClaim("User not found"), ErrUserNotFound
		default:
			return failedClaim("database error: " + err.Error()), fmt.Errorf("failed to claim task: %w", err)
		}
	}

	return &model.TaskClaimResult{
		Success:      true,
		Message:      "Task completed successfully",
		PointsEarned: reward,
	}, nil
}

func failedClaim(message string) *model.TaskClaimResult {
	return &model.TaskClaimResult{
		Success: false,
		Message: message,
	}
}

func (s *FixedTaskService) CreateFixedTask(ctx context.Context, task *model.FixedTask) (uuid.UUID, error) {
	if task.TaskID == uuid.Nil {
		task.TaskID = uuid.New()
	}

	if err := s.repo.CreateFixedTask(ctx, task); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create fixed task: %w", err)
	}

	return task.TaskID, nil
}

func (s *FixedTaskService) DeactivateFixedTask(ctx context.Context, taskID uuid.UUID) error {
	err := s.repo.SetTaskActive(ctx, taskID, false)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to deactivate task: %w", err)
	}
	return nil
}
