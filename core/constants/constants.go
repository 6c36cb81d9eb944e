package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Database defaults
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Request handling
const (
	DefaultRequestTimeout = 15 * time.Second
)

// Background sweep
const (
	DefaultSweepInterval = 5 * time.Minute
	SweepBatchSize       = 200
)

// Chatrooms stay open for a short wrap-up window after their meetup
// expires.
const (
	ChatroomGracePeriod = 30 * time.Minute
)

// Bounded retry for participant-counter conflicts.
const (
	JoinRetryAttempts = 3
)
