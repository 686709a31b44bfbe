package model

import "time"

type ReferralStatus string

const (
	// ReferralPending is the only status this service ever writes. Later
	// transitions (activation, reward payout) belong to offline jobs.
	ReferralPending   ReferralStatus = "pending"
	ReferralActive    ReferralStatus = "active"
	ReferralCancelled ReferralStatus = "cancelled"
)

type Referral struct {
	ReferrerID int64
	ReferredID int64
	Status     ReferralStatus
	CreatedAt  time.Time
}
