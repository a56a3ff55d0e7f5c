package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	naturaldate "github.com/tj/go-naturaldate"
	"go.uber.org/zap"

	"github.com/nhle/task-extractor/internal/model"
)

// slashDatePattern is the strict numeric date form D/D with an optional
// 2- or 4-digit year. It short-circuits natural-language parsing.
var slashDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?$`)

// utcOffsetPattern is the explicit offset suffix a reference timestamp
// must carry before any relative date can be anchored.
var utcOffsetPattern = regexp.MustCompile(`[+-]\d{2}:\d{2}$`)

// resolveDue turns a raw due value into a YYYY-MM-DD date string.
// Unparsable values, placeholder values, and reference timestamps
// without a UTC offset all resolve to nil rather than failing the run.
func (e *Extractor) resolveDue(raw, reference string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" || isPlaceholder(raw) {
		return nil
	}

	if !utcOffsetPattern.MatchString(reference) {
		e.log.Debug("reference timestamp has no utc offset, skipping due date",
			zap.String("reference", reference))
		return nil
	}

	refTime, err := time.Parse(time.RFC3339, reference)
	if err != nil {
		e.log.Debug("unparsable reference timestamp",
			zap.String("reference", reference), zap.Error(err))
		return nil
	}

	if match := slashDatePattern.FindStringSubmatch(raw); match != nil {
		due, ok := e.resolveSlashDate(match, refTime)
		if !ok {
			e.log.Debug("numeric due date out of range", zap.String("raw", raw))
			return nil
		}
		e.log.Debug("resolved numeric due date",
			zap.String("raw", raw), zap.String("due", due))
		return &due
	}

	parsed, err := naturaldate.Parse(raw, refTime,
		naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		e.log.Debug("unparsable due date", zap.String("raw", raw), zap.Error(err))
		return nil
	}

	// go-naturaldate echoes the base time with a nil error for text it
	// cannot interpret. Only "now" and "today" legitimately resolve to
	// the reference instant.
	if parsed.Equal(refTime) && !refersToNow(raw) {
		e.log.Debug("unrecognized due date text", zap.String("raw", raw))
		return nil
	}

	// Take the date portion in the reference timestamp's own offset so
	// relative expressions resolve in the email's local time.
	due := parsed.In(refTime.Location()).Format("2006-01-02")
	e.log.Debug("resolved relative due date",
		zap.String("raw", raw), zap.String("due", due))
	return &due
}

// refersToNow reports whether the raw text names the reference instant
// itself.
func refersToNow(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "now", "today":
		return true
	}
	return false
}

// resolveSlashDate maps the strict numeric match to a date, ordering
// month and day by the configured locale. A missing year defaults to
// the reference year; a 2-digit year is read as 20YY. Month or day
// values outside the calendar range report failure.
func (e *Extractor) resolveSlashDate(
	match []string, ref time.Time,
) (string, bool) {
	first, _ := strconv.Atoi(match[1])
	second, _ := strconv.Atoi(match[2])

	month, day := first, second
	if e.opts.DateFormat == model.DateOrderEU {
		day, month = first, second
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}

	year := ref.Year()
	if match[3] != "" {
		yearText := match[3]
		if len(yearText) == 2 {
			yearText = "20" + yearText
		}
		year, _ = strconv.Atoi(yearText)
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
