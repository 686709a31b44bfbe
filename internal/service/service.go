package service

import (
	"context"
	"errors"

	"TON_rewards_miniapp/internal/model"

	"github.com/google/uuid"
)

// Service-level failure kinds. Handlers match on these with errors.Is and
// never inspect message text.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrTaskNotFound         = errors.New("task not found or inactive")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
	ErrClaimNotAvailable    = errors.New("the required time has not yet passed since your last claim")
	ErrDuplicateReferral    = errors.New("referral already registered")
	ErrSelfReferral         = errors.New("users cannot refer themselves")
	ErrMiningInProgress     = errors.New("mining session already in progress")
	ErrMiningNotStarted     = errors.New("no mining session to claim")
	ErrWalletNotConnected   = errors.New("wallet not connected")
	ErrInvalidWalletAddress = errors.New("invalid wallet address")
)

type UserServiceI interface {
	RegisterUser(ctx context.Context, user *model.User) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	UpdateUserPoints(ctx context.Context, telegramID int64, points int) error
	ConnectWallet(ctx context.Context, telegramID int64, address string) error
	GetUserReferrals(ctx context.Context, telegramID int64) ([]*model.UserReferral, error)
	GetLeaderboard(ctx context.Context) ([]*model.User, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	UpdateUserPoints(ctx context.Context, telegramID int64, points int) error
	AddUserMinutes(ctx context.Context, telegramID int64, minutes int) error
	SetWalletAddress(ctx context.Context, telegramID int64, address string) error
	GetTopUsers(ctx context.Context, limit int) ([]*model.User, error)
	GetUserReferrals(ctx context.Context, telegramID int64) ([]*model.UserReferral, error)
}

type FixedTaskServiceI interface {
	GetFixedTasks(ctx context.Context, telegramID int64) ([]*model.FixedTask, map[uuid.UUID]struct{}, error)
	ClaimFixedTask(ctx context.Context, telegramID int64, taskID uuid.UUID) (*model.TaskClaimResult, error)
	CreateFixedTask(ctx context.Context, task *model.FixedTask) (uuid.UUID, error)
	DeactivateFixedTask(ctx context.Context, taskID uuid.UUID) error
}

type FixedTaskRepository interface {
	GetActiveTasksWithClaims(ctx context.Context, telegramID int64) ([]*model.FixedTask, map[uuid.UUID]struct{}, error)
	GetTaskByID(ctx context.Context, taskID uuid.UUID) (*model.FixedTask, error)
	HasClaimedTask(ctx context.Context, telegramID int64, taskID uuid.UUID) (bool, error)
	ClaimFixedTask(ctx context.Context, telegramID int64, taskID uuid.UUID) (int, error)
	CreateFixedTask(ctx context.Context, task *model.FixedTask) error
	SetTaskActive(ctx context.Context, taskID uuid.UUID, active bool) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}

type ReferralServiceI interface {
	RegisterReferral(ctx context.Context, referrerID, referredID int64) error
	GetReferralsByReferrer(ctx context.Context, referrerID int64) ([]*model.Referral, error)
}

type ReferralRepository interface {
	CreateReferral(ctx context.Context, referrerID, referredID int64) error
	GetReferralsByReferrer(ctx context.Context, referrerID int64) ([]*model.Referral, error)
}

type DailyBonusServiceI interface {
	GetStatus(ctx context.Context, telegramID int64) (*model.DailyBonus, error)
	Claim(ctx context.Context, telegramID int64) error
}

type DailyBonusRepository interface {
	GetDailyBonusStatus(ctx context.Context, telegramID int64) (*model.DailyBonus, error)
	UpdateDailyBonusStatus(ctx context.Context, bonus *model.DailyBonus) error
	AddUserMinutes(ctx context.Context, telegramID int64, minutes int) error
}

type MiningServiceI interface {
	Start(ctx context.Context, telegramID int64) error
	Status(ctx context.Context, telegramID int64) (*model.MiningStatus, error)
	Claim(ctx context.Context, telegramID int64) (int, error)
}

type MiningRepository interface {
	StartMining(ctx context.Context, telegramID int64) error
	MiningStatus(ctx context.Context, telegramID int64) (*model.MiningStatus, error)
	ClaimMining(ctx context.Context, telegramID int64) (int, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}
