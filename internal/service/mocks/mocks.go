package mocks

import (
	"context"

	"TON_rewards_miniapp/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUserPoints(ctx context.Context, telegramID int64, points int) error {
	args := m.Called(ctx, telegramID, points)
	return args.Error(0)
}

func (m *MockUserRepository) AddUserMinutes(ctx context.Context, telegramID int64, minutes int) error {
	args := m.Called(ctx, telegramID, minutes)
	return args.Error(0)
}

func (m *MockUserRepository) SetWalletAddress(ctx context.Context, telegramID int64, address string) error {
	args := m.Called(ctx, telegramID, address)
	return args.Error(0)
}

func (m *MockUserRepository) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserReferrals(ctx context.Context, telegramID int64) ([]*model.UserReferral, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.UserReferral), args.Error(1)
}

type MockFixedTaskRepository struct {
	mock.Mock
}

func (m *MockFixedTaskRepository) GetActiveTasksWithClaims(ctx context.Context, telegramID int64) ([]*model.FixedTask, map[uuid.UUID]struct{}, error) {
	args := m.Called(ctx, telegramID)
	var tasks []*model.FixedTask
	if args.Get(0) != nil {
		tasks = args.Get(0).([]*model.FixedTask)
	}
	var completed map[uuid.UUID]struct{}
	if args.Get(1) != nil {
		completed = args.Get(1).(map[uuid.UUID]struct{})
	}
	return tasks, completed, args.Error(2)
}

func (m *MockFixedTaskRepository) GetTaskByID(ctx context.Context, taskID uuid.UUID) (*model.FixedTask, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FixedTask), args.Error(1)
}

func (m *MockFixedTaskRepository) HasClaimedTask(ctx context.Context, telegramID int64, taskID uuid.UUID) (bool, error) {
	args := m.Called(ctx, telegramID, taskID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFixedTaskRepository) ClaimFixedTask(ctx context.Context, telegramID int64, taskID uuid.UUID) (int, error) {
	args := m.Called(ctx, telegramID, taskID)
	return args.Int(0), args.Error(1)
}

func (m *MockFixedTaskRepository) CreateFixedTask(ctx context.Context, task *model.FixedTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockFixedTaskRepository) SetTaskActive(ctx context.Context, taskID uuid.UUID, active bool) error {
	args := m.Called(ctx, taskID, active)
	return args.Error(0)
}

func (m *MockFixedTaskRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) CreateReferral(ctx context.Context, referrerID, referredID int64) error {
	args := m.Called(ctx, referrerID, referredID)
	return args.Error(0)
}

func (m *MockReferralRepository) GetReferralsByReferrer(ctx context.Context, referrerID int64) ([]*model.Referral, error) {
	args := m.Called(ctx, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Referral), args.Error(1)
}

type MockDailyBonusRepository struct {
	mock.Mock
}

func (m *MockDailyBonusRepository) GetDailyBonusStatus(ctx context.Context, telegramID int64) (*model.DailyBonus, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyBonus), args.Error(1)
}

func (m *MockDailyBonusRepository) UpdateDailyBonusStatus(ctx context.Context, bonus *model.DailyBonus) error {
	args := m.Called(ctx, bonus)
	return args.Error(0)
}

func (m *MockDailyBonusRepository) AddUserMinutes(ctx context.Context, telegramID int64, minutes int) error {
	args := m.Called(ctx, telegramID, minutes)
	return args.Error(0)
}
