package service

import (
	"time"

	"mikune/models"
)

// CooldownAction names a rate-limited action. Each action has its own marker.
type CooldownAction string

const (
	CooldownDaily     CooldownAction = "daily"
	CooldownWeekly    CooldownAction = "weekly"
	CooldownMonthly   CooldownAction = "monthly"
	CooldownWork      CooldownAction = "work"
	CooldownRob       CooldownAction = "rob"
	CooldownCrime     CooldownAction = "crime"
	CooldownAdventure CooldownAction = "adventure"
	CooldownFish      CooldownAction = "fish"
	CooldownHunt      CooldownAction = "hunt"
	CooldownInterest  CooldownAction = "interest"
)

// Cooldown durations for the rewarded actions
const (
	DailyCooldown    = 24 * time.Hour
	WeeklyCooldown   = 7 * 24 * time.Hour
	WorkCooldown     = time.Hour
	RobCooldown      = 2 * time.Hour
	InterestCooldown = 24 * time.Hour
)

// marker returns the account field backing an action
func marker(account *models.Account, action CooldownAction) **models.Timestamp {
	switch action {
	case CooldownDaily:
		return &account.LastDaily
	case CooldownWeekly:
		return &account.LastWeekly
	case CooldownMonthly:
		return &account.LastMonthly
	case CooldownWork:
		return &account.LastWork
	case CooldownRob:
		return &account.LastRob
	case CooldownCrime:
		return &account.LastCrime
	case CooldownAdventure:
		return &account.LastAdventure
	case CooldownFish:
		return &account.LastFish
	case CooldownHunt:
		return &account.LastHunt
	case CooldownInterest:
		return &account.LastInterest
	default:
		return nil
	}
}

// CooldownRemaining returns how long until action is permitted again.
// Zero means the action may run now.
func CooldownRemaining(account *models.Account, action CooldownAction, cooldown time.Duration, now time.Time) time.Duration {
	field := marker(account, action)
	if field == nil || *field == nil {
		return 0
	}
	remaining := cooldown - (*field).Since(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// StampCooldown records that action happened at now
func StampCooldown(account *models.Account, action CooldownAction, now time.Time) {
	if field := marker(account, action); field != nil {
		*field = models.NewTimestamp(now)
	}
}
