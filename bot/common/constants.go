package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
	ColorCarrot  = 0xF28C28
)

// Currency display
const (
	CurrencyEmoji = "🥕"
	CurrencyName  = "carrots"
)

// Command names
const (
	CommandBalance     = "balance"
	CommandDeposit     = "deposit"
	CommandWithdraw    = "withdraw"
	CommandTransfer    = "transfer"
	CommandPay         = "pay"
	CommandHistory     = "history"
	CommandLoan        = "loan"
	CommandProperty    = "property"
	CommandDaily       = "daily"
	CommandWeekly      = "weekly"
	CommandWork        = "work"
	CommandRob         = "rob"
	CommandJob         = "job"
	CommandShop        = "shop"
	CommandProfile     = "profile"
	CommandLeaderboard = "leaderboard"
)

// UI constants
const (
	HistoryPageSize     = 10
	LeaderboardPageSize = 10
	MaxChoices          = 25
)
