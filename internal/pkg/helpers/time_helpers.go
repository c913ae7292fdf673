package helpers

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration reads a timeout setting such as "15s" or "1h".
// A bare integer is taken as seconds so env overrides like SERVER_READ_TIMEOUT=30 work.
// Unset values fall back to def quietly; malformed or non-positive ones fall back with a warning.
func ParseDuration(value string, def time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		secs, convErr := strconv.Atoi(value)
		if convErr != nil {
			log.Warn().Err(err).Str("value", value).Dur("fallback", def).Msg("Invalid duration setting")
			return def
		}
		d = time.Duration(secs) * time.Second
	}

	if d <= 0 {
		log.Warn().Str("value", value).Dur("fallback", def).Msg("Duration setting must be positive")
		return def
	}
	return d
}
