package model

import (
	"time"

	"github.com/google/uuid"
)

type FixedTask struct {
	TaskID       uuid.UUID
	Title        string
	Description  string
	PointsReward int
	IsActive     bool
	CreatedAt    time.Time
}

type UserFixedTask struct {
	UserTelegramID int64
	TaskID         uuid.UUID
	CompletedAt    time.Time
}

// TaskClaimResult is the structured outcome of a claim attempt. Failures are
// classified once at the service boundary; handlers only read Message.
type TaskClaimResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	PointsEarned int    `json:"points_earned"`
}
