// Package clock supplies the reference timestamp that anchors relative
// due dates: the current time in a configured timezone, rendered as an
// ISO-8601 string with an explicit UTC offset.
package clock

import (
	"fmt"
	"time"
)

// Clock returns the reference timestamp for an extraction run.
type Clock interface {
	Now() string
}

// ZoneClock reports the current time in a fixed IANA timezone.
type ZoneClock struct {
	loc *time.Location
}

// NewZoneClock resolves the given IANA zone name.
func NewZoneClock(zone string) (*ZoneClock, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", zone, err)
	}
	return &ZoneClock{loc: loc}, nil
}

// Now returns the current time in the configured zone with its offset.
func (c *ZoneClock) Now() string {
	return time.Now().In(c.loc).Format("2006-01-02T15:04:05-07:00")
}

// Fixed is a Clock that always reports the same timestamp, for tests.
type Fixed struct {
	Timestamp string
}

// Now returns the fixed timestamp.
func (c Fixed) Now() string {
	return c.Timestamp
}
