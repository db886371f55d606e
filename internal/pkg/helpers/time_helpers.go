package helpers

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration reads a config duration such as "30s" or "168h". Blank
// values fall back to def silently; malformed or non positive ones fall
// back with a warning.
func ParseDuration(value string, def time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		// The global logger: this runs before Configure in some paths
		log.Warn().Err(err).Str("value", value).Dur("default", def).Msg("Invalid duration, using default")
		return def
	}
	return d
}

// Today formats now as a calendar date in the layout the upstream expects
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// DateLayout is the YYYY-MM-DD form used for attendance and due dates
const DateLayout = "2006-01-02"

// ValidDate reports whether s is a calendar date in DateLayout
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
