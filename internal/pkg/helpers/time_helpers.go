package helpers

import (
	"time"

	"github.com/yigit/edurecords/internal/pkg/logger"
)

// Now is the services' clock: UTC, cut to milliseconds since that is what mongo keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// DurationOr parses value as a duration. Empty, malformed or non-positive values give def.
func DurationOr(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logger.Warn().Str("value", value).Dur("fallback", def).Msg("Invalid duration, using fallback")
		return def
	}
	return d
}
