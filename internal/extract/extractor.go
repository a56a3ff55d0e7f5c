// Package extract derives a task title and a fixed set of metadata
// fields from sanitized Markdown email text.
package extract

import (
	"strings"

	"go.uber.org/zap"

	"github.com/nhle/task-extractor/internal/model"
)

// mailEmoji is the marker optionally attached to derived titles.
const mailEmoji = "✉️"

// Extractor scans Markdown text for recognized metadata field lines and
// normalizes their values. It is stateless across calls.
type Extractor struct {
	opts model.ExtractOptions
	log  *zap.Logger
}

// New creates an Extractor with the given options. Unrecognized option
// values fall back to their defaults. A nil logger disables tracing.
func New(opts model.ExtractOptions, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		opts: opts.Normalize(),
		log:  log.Named("extract"),
	}
}

// Extract scans the Markdown for metadata field lines and builds the
// task record. The subject line feeds the title fallback; the reference
// timestamp anchors relative due dates. Every metadata field is present
// on the result, nil when the email did not carry it.
func (e *Extractor) Extract(
	markdown, subject, referenceTimestamp string,
) *model.TaskRecord {
	lines := strings.Split(markdown, "\n")

	record := &model.TaskRecord{
		Content: markdown,
		Name:    e.decorate(e.fallbackTitle(lines, subject)),
	}

	raws := scanFields(lines)

	if raw, ok := raws[fieldName]; ok {
		record.Name = e.decorate(raw)
	}

	if raw, ok := raws[fieldDue]; ok {
		record.Due = e.resolveDue(raw, referenceTimestamp)
	}

	if raw, ok := present(raws, fieldEmailLink); ok {
		record.EmailLink = normalizeEmailLink(raw)
	}

	if raw, ok := present(raws, fieldLabel); ok {
		record.Label = splitLabels(raw)
	}

	if raw, ok := present(raws, fieldPriority); ok {
		record.Priority = normalizePriority(raw)
	}

	if raw, ok := present(raws, fieldSmartList); ok {
		record.SmartList = normalizeSmartList(raw)
	}

	if raw, ok := present(raws, fieldStatus); ok {
		record.Status = normalizeStatus(raw)
	}

	if raw, ok := present(raws, fieldTag); ok {
		tag := strings.TrimSpace(raw)
		record.Tag = &tag
	}

	return record
}

// present returns the scanned raw value, treating empty and placeholder
// values as absent.
func present(raws map[fieldKey]string, key fieldKey) (string, bool) {
	raw, ok := raws[key]
	if !ok || raw == "" || isPlaceholder(raw) {
		return "", false
	}
	return raw, true
}

// fallbackTitle derives the title used when no Name: field is present.
func (e *Extractor) fallbackTitle(lines []string, subject string) string {
	if e.opts.TitleFallback == model.TitleFromBody {
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" || isFieldLine(line) {
				continue
			}
			return line
		}
		// No usable body line; the subject wins regardless of config.
	}
	return cleanSubject(subject)
}

// cleanSubject strips a leading "Subject:" label and a leading forward
// marker from the subject header.
func cleanSubject(subject string) string {
	subject = strings.TrimSpace(subject)
	subject = strings.TrimSpace(trimPrefixFold(subject, "subject:"))
	for _, marker := range []string{"fwd:", "fw:"} {
		trimmed := trimPrefixFold(subject, marker)
		if trimmed != subject {
			subject = strings.TrimSpace(trimmed)
			break
		}
	}
	return subject
}

// trimPrefixFold removes prefix from s case-insensitively, returning s
// unchanged when the prefix is not there.
func trimPrefixFold(s, prefix string) string {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):]
	}
	return s
}

// decorate attaches the mail emoji marker per configuration.
func (e *Extractor) decorate(title string) string {
	title = strings.TrimSpace(title)
	switch e.opts.MailEmoji {
	case model.EmojiBefore:
		return mailEmoji + " " + title
	case model.EmojiAfter:
		return title + " " + mailEmoji
	default:
		return title
	}
}
