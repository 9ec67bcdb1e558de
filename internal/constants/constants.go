package constants

import "time"

const (
	RequestTimeout      = 30 * time.Second
	DatabaseTimeout     = 5 * time.Second
	AuthProviderTimeout = 10 * time.Second
)

// Settle delays carried over from the source design: short fixed waits
// before re-reading, standing in for read-your-writes guarantees the
// backend does not provide.
const (
	StatsSettleDelay       = 200 * time.Millisecond
	DeleteSettleDelay      = 500 * time.Millisecond
	LeaderboardSettleDelay = 300 * time.Millisecond
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	MatchListLimit       = 1000
	RecomputeConcurrency = 4
)

const (
	LoginPayloadTTL = 10 * time.Minute
	SessionTTL      = 24 * time.Hour
	SessionCookie   = "jwt"
)

const (
	ShutdownTimeout = 5 * time.Second
)
