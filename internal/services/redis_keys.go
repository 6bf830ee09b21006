package services

import "time"

const (
	KeySessionSeq = "session:%s:seq"
	KeyRound      = "round:%s"
	KeyUserRounds = "guild:%s:user:%s:rounds"
	KeyGuildStats = "guild:%s:stats:%s"
	KeyRateLimit  = "ratelimit:%s:%s:%s"

	TTLSession = time.Hour
	TTLRound   = 7 * 24 * time.Hour // 7 days

	HistoryDepth = 100 // rounds kept per user

	DefaultRateLimitStarts  = 30  // game starts per minute
	DefaultRateLimitActions = 120 // mid-round actions per minute
)
