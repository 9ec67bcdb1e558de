package domain

import (
	"time"
)

// WinnerDraw is the sentinel stored in Match.Winner when a match was
// declared a draw rather than won by either wallet.
const WinnerDraw = "draw"

type User struct {
	WalletAddress string
	DisplayName   string
	CreatedAt     time.Time
}

type Match struct {
	ID           int64
	Player1      string // wallet address
	Player2      string // wallet address
	Player1Score int
	Player2Score int
	Player1Team  string
	Player2Team  string
	Winner       string // wallet address, WinnerDraw, or "" until declared
	CreatedAt    time.Time
}

// Involves reports whether the wallet took part in the match.
func (m *Match) Involves(address string) bool {
	return m.Player1 == address || m.Player2 == address
}

func (m *Match) IsDraw() bool {
	return m.Player1Score == m.Player2Score
}

// PlayerStats is a derived aggregate over all visible matches involving
// UserID. It is never the source of truth; see service.StatsService.
type PlayerStats struct {
	UserID       string
	Wins         int
	Losses       int
	Draws        int
	GoalsFor     int
	GoalsAgainst int
	TotalGames   int
}
