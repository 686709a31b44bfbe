package model

import "time"

type DailyBonus struct {
	UserTelegramID         int64
	LastClaimedAt          *time.Time
	NextClaimAvailable     *time.Time
	IsAvailable            bool
	HasNeverBeenClaimed    bool
	ConsecutiveDaysClaimed int
	DailyRewards           []DayReward
}

type DayReward struct {
	Day     int
	Minutes int
}
