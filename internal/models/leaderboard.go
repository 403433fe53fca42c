package models

// LeaderboardEntry is one row of the spend leaderboard.
// The json field name matches what the frontend expects.
type LeaderboardEntry struct {
	Name         string  `json:"name"`
	TotalExpense float64 `json:"total_expenses"`
}
