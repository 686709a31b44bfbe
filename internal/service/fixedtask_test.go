package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"TON_rewards_miniapp/internal/model"
	"TON_rewards_miniapp/internal/repository"
	"TON_rewards_miniapp/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestFixedTaskService_ClaimFixedTask(t *testing.T) {
	taskID := uuid.New()
	activeTask := &model.FixedTask{
		TaskID:       taskID,
		Title:        "Join channel",
		PointsReward: 50,
		IsActive:     true,
	}
	inactiveTask := &model.FixedTask{
		TaskID:       taskID,
		Title:        "Old promo",
		PointsReward: 25,
		IsActive:     false,
	}
	user := &model.User{TelegramID: 100, Points: 0}

	tests := []struct {
		name            string
		telegramID      int64
		mockSetup       func(*mocks.MockFixedTaskRepository)
		expectedErr     error
		expectedSuccess bool
		expectedMessage string
		expectedPoints  int
	}{
		{
			name:       "user not found",
			telegramID: 100,
			mockSetup: func(repo *mocks.MockFixedTaskRepository) {
				repo.On("GetUserByTelegramID", mock.Anything, int64(100)).
					Return(nil, repository.ErrNotFound)
			},
			expectedErr:     ErrUserNotFound,
			expectedMessage: "User not found",
		},
		{
			name:       "task not found",
			telegramID: 100,
			mockSetup: func(repo *mocks.MockFixedTaskRepository) {
				repo.On("GetUserByTelegramID", mock.Anything, int64(100)).Return(user, nil)
				repo.On("GetTaskByID", mock.Anything, taskID).
					Return(nil, repository.ErrTaskNotFound)
			},
			expectedErr:     ErrTaskNotFound,
			expectedMessage: "Task not found or inactive",
		},
		{
			name:       "task inactive",
			telegramID: 100,
			mockSetup: func(repo *mocks.MockFixedTaskRepository) {
				repo.On("GetUserByTelegramID", mock.Anything, int64(100)).Return(user, nil)
				repo.On("GetTaskByID", mock.Anything, taskID).Return(inactiveTask, nil)
			},
			expectedErr:     ErrTaskNotFound,
			expectedMessage: "Task not found or inactive",
		},
		{
			name:       "already completed via pre-check",
			telegramID: 100,
			mockSetup: func(repo *mocks.MockFixedTaskRepository) {
				repo.On("GetUserByTelegramID", mock.Anything, int64(100)).Return(user, nil)
				repo.On("GetTaskByID", mock.Anything, taskID).Return(activeTask, nil)
				repo.On("HasClaimedTask", mock.Anything, int64(100), taskID).Return(true, nil)
			},
			expectedErr:     ErrTaskAlreadyCompleted,
			expectedMessage: "Task already completed",
		},
		{
			name:       "already completed detected by claim transaction",
			telegramID: 100,
			mockSetup: func(repo *mocks.MockFixedTaskRepository) {
				// Pre-check misses: a concurrent claim landed in between.
				repo.On("GetUserByTelegramID", mock.Anything, int64(100)).Return(user, nil)
				repo.On("GetTaskByID", mock.Anything, taskID).Return(activeTask, nil)
				repo.On("HasClaimedTask", mock.Anything, int64(100), taskID).Return(false, nil)
				repo.On("ClaimFixedTask", mock.Anything, int64(100), taskID).
					Return(0, repository.ErrTaskAlreadyClaimed)
			},
			expectedErr:     ErrTaskAlreadyCompleted,
			expectedMessage: "Task already completed",
		},
		{
			name:       "successful claim",
			telegramID: 100,
			mockSetup: func(repo *mocks.MockFixedTaskRepository) {
				repo.On("GetUserByTelegramID", mock.Anything, int64(100)).Return(user, nil)
				repo.On("GetTaskByID", mock.Anything, taskID).Return(activeTask, nil)
				repo.On("HasClaimedTask", mock.Anything, int64(100), taskID).Return(false, nil)
				repo.On("ClaimFixedTask", mock.Anything, int64(100), taskID).Return(50, nil)
			},
			expectedSuccess: true,
			expectedMessage: "Task completed successfully",
			expectedPoints:  50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockFixedTaskRepository{}
			tt.mockSetup(mockRepo)
			svc := NewFixedTaskService(mockRepo)

			result, err := svc.ClaimFixedTask(context.Background(), tt.telegramID, taskID)

			assert.NotNil(t, result)
			assert.Equal(t, tt.expectedSuccess, result.Success)
			assert.Equal(t, tt.expectedMessage, result.Message)
			assert.Equal(t, tt.expectedPoints, result.PointsEarned)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestFixedTaskService_ClaimFixedTask_DatabaseError(t *testing.T) {
	taskID := uuid.New()
	mockRepo := &mocks.MockFixedTaskRepository{}
	mockRepo.On("GetUserByTelegramID", mock.Anything, int64(100)).
		Return(&model.User{TelegramID: 100}, nil)
	mockRepo.On("GetTaskByID", mock.Anything, taskID).
		Return(&model.FixedTask{TaskID: taskID, PointsReward: 50, IsActive: true}, nil)
	mockRepo.On("HasClaimedTask", mock.Anything, int64(100), taskID).Return(false, nil)
	mockRepo.On("ClaimFixedTask", mock.Anything, int64(100), taskID).
		Return(0, errors.New("connection refused"))

	svc := NewFixedTaskService(mockRepo)
	result, err := svc.ClaimFixedTask(context.Background(), 100, taskID)

	assert.Error(t, err)
	assert.NotNil(t, result)
	assert.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Message, "database error:"))
}

func TestFixedTaskService_GetFixedTasks(t *testing.T) {
	taskID := uuid.New()
	user := &model.User{TelegramID: 100}

	t.Run("user not found", func(t *testing.T) {
		mockRepo := &mocks.MockFixedTaskRepository{}
		mockRepo.On("GetUserByTelegramID", mock.Anything, int64(100)).
			Return(nil, repository.ErrNotFound)

		svc := NewFixedTaskService(mockRepo)
		_, _, err := svc.GetFixedTasks(context.Background(), 100)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("empty catalog is success", func(t *testing.T) {
		mockRepo := &mocks.MockFixedTaskRepository{}
		mockRepo.On("GetUserByTelegramID", mock.Anything, int64(100)).Return(user, nil)
		mockRepo.On("GetActiveTasksWithClaims", mock.Anything, int64(100)).
			Return([]*model.FixedTask{}, map[uuid.UUID]struct{}{}, nil)

		svc := NewFixedTaskService(mockRepo)
		tasks, completed, err := svc.GetFixedTasks(context.Background(), 100)

		assert.NoError(t, err)
		assert.Empty(t, tasks)
		assert.Empty(t, completed)
	})

	t.Run("catalog with completed set", func(t *testing.T) {
		mockRepo := &mocks.MockFixedTaskRepository{}
		mockRepo.On("GetUserByTelegramID", mock.Anything, int64(100)).Return(user, nil)
		mockRepo.On("GetActiveTasksWithClaims", mock.Anything, int64(100)).
			Return(
				[]*model.FixedTask{{TaskID: taskID, Title: "Join channel", PointsReward: 50, IsActive: true}},
				map[uuid.UUID]struct{}{taskID: {}},
				nil,
			)

		svc := NewFixedTaskService(mockRepo)
		tasks, completed, err := svc.GetFixedTasks(context.Background(), 100)

		assert.NoError(t, err)
		assert.Len(t, tasks, 1)
		assert.Contains(t, completed, taskID)
	})
}
