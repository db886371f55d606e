package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 45*time.Second, ParseDuration("45s", time.Minute))
	assert.Equal(t, 168*time.Hour, ParseDuration(" 168h ", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("-5s", time.Minute))
}

func TestDates(t *testing.T) {
	now := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-02", Today(now))

	assert.True(t, ValidDate("2026-02-28"))
	assert.False(t, ValidDate("2026-02-30"))
	assert.False(t, ValidDate("02/03/2026"))
	assert.False(t, ValidDate(""))
}
