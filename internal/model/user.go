package model

import (
	"time"

	"github.com/google/uuid"
)

type MembershipLevel string

const (
	LevelBronze   MembershipLevel = "bronze"
	LevelSilver   MembershipLevel = "silver"
	LevelGold     MembershipLevel = "gold"
	LevelPlatinum MembershipLevel = "platinum"
)

// MembershipLevelForPoints derives the tier label from the points balance.
// Thresholds: 0-200 bronze, 201-500 silver, 501-1000 gold, 1001+ platinum.
func MembershipLevelForPoints(points int) MembershipLevel {
	switch {
	case points <= 200:
		return LevelBronze
	case points <= 500:
		return LevelSilver
	case points <= 1000:
		return LevelGold
	default:
		return LevelPlatinum
	}
}

type User struct {
	TelegramID       int64
	AuthID           uuid.UUID
	Username         string
	ReferrerID       *int64
	Referrals        int
	Points           int
	TotalMinutes     int
	WalletAddress    *string
	IsAdmin          bool
	RegistrationDate time.Time
	AuthDate         time.Time
}

func (u *User) MembershipLevel() MembershipLevel {
	return MembershipLevelForPoints(u.Points)
}

type UserReferral struct {
	TelegramID       int64
	TelegramUsername string
	ReferralCount    int
	Points           int
}
