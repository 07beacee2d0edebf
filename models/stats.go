package models

// LeaderboardKind selects the ranking key
type LeaderboardKind string

const (
	LeaderboardByLevel LeaderboardKind = "level"
	LeaderboardByMoney LeaderboardKind = "money"
	LeaderboardByXP    LeaderboardKind = "xp"
)

// ParseLeaderboardKind maps user input to a kind, defaulting to money
func ParseLeaderboardKind(value string) LeaderboardKind {
	switch LeaderboardKind(value) {
	case LeaderboardByLevel, LeaderboardByXP:
		return LeaderboardKind(value)
	default:
		return LeaderboardByMoney
	}
}

// LeaderboardEntry represents a ranked account on the leaderboard
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Level    int    `json:"level"`
	XP       int64  `json:"xp"`
	Balance  int64  `json:"balance"`
	Bank     int64  `json:"bank"`
	NetWorth int64  `json:"net_worth"`
}
