package clock_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/task-extractor/internal/clock"
)

var offsetTimestamp = regexp.MustCompile(
	`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}[+-]\d{2}:\d{2}$`,
)

func TestZoneClock_FormatsExplicitOffset(t *testing.T) {
	t.Parallel()

	c, err := clock.NewZoneClock("UTC")
	require.NoError(t, err)

	assert.Regexp(t, offsetTimestamp, c.Now())
}

func TestNewZoneClock_UnknownZone(t *testing.T) {
	t.Parallel()

	_, err := clock.NewZoneClock("Not/AZone")
	assert.Error(t, err)
}

func TestFixedClock(t *testing.T) {
	t.Parallel()

	c := clock.Fixed{Timestamp: "2024-03-01T10:00:00-05:00"}
	assert.Equal(t, "2024-03-01T10:00:00-05:00", c.Now())
}
