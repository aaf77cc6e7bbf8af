package models

import (
	"errors"
	"strings"
	"time"
)

// Daily tracks the login-streak state. StreakDay is 0 until the first claim.
type Daily struct {
	LastClaimedAt *time.Time `json:"last_claimed_at,omitempty"`
	StreakDay     int        `json:"streak_day"`
}

// AdViews tracks rewarded-ad consumption inside the current quota period.
// PeriodStartedAt is nil until the first ad of a period is watched.
type AdViews struct {
	Count           int        `json:"count"`
	PeriodStartedAt *time.Time `json:"period_started_at,omitempty"`
}

// ReferralEdge is the cumulative bonus paid to a referrer because one
// referred account kept claiming. AddedValue only ever grows.
type ReferralEdge struct {
	ReferredID string    `json:"referred_id"`
	AddedValue Mills     `json:"added_value"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Account struct {
	ID              string     `json:"id"`
	Username        string     `json:"username"`
	PasswordHash    string     `json:"-"`
	Balance         Mills      `json:"balance"`
	MineRate        Mills      `json:"mine_rate"` // mills per second
	MiningActive    bool       `json:"mining_active"`
	MiningStartedAt *time.Time `json:"mining_started_at,omitempty"`
	ReferredBy      *string    `json:"referred_by,omitempty"`
	Daily           Daily      `json:"daily"`
	AdViews         AdViews    `json:"ad_views"`

	// Version is bumped on every write; conditional updates are keyed on it.
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Account) Validate() error {
	if len(strings.TrimSpace(a.Username)) < 3 {
		return errors.New("username too short")
	}
	if a.Balance < 0 {
		return errors.New("negative balance")
	}
	return nil
}
