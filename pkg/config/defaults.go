package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "novopets"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Grooming salon hours: 09:00-17:00 with a lunch break, one-hour slots.
	DefaultOpenHour        = 9
	DefaultCloseHour       = 17
	DefaultSlotDurationMin = 60

	DefaultHoldTTL = 5 * time.Minute

	DefaultBookingsTopic = "novopets.bookings"
)

var DefaultBreakIntervals = []string{"12:00-13:00"}
