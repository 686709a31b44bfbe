package model

import "time"

type MiningStatus struct {
	Active          bool
	MinutesAccrued  int
	SessionComplete bool
	StartedAt       *time.Time
}
