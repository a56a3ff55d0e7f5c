package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// fieldKey identifies one of the eight recognized metadata fields.
type fieldKey int

const (
	fieldName fieldKey = iota
	fieldDue
	fieldEmailLink
	fieldLabel
	fieldPriority
	fieldSmartList
	fieldStatus
	fieldTag
)

// fieldSpec binds a field to the line label that introduces it.
type fieldSpec struct {
	key     fieldKey
	label   string
	pattern *regexp.Regexp
}

// fieldSpecs is the closed set of recognized metadata fields. The scan
// iterates this set; there is no dynamic field registration.
var fieldSpecs = []fieldSpec{
	newFieldSpec(fieldName, "name"),
	newFieldSpec(fieldDue, "due"),
	newFieldSpec(fieldEmailLink, "email link"),
	newFieldSpec(fieldLabel, "label"),
	newFieldSpec(fieldPriority, "priority"),
	newFieldSpec(fieldSmartList, "smart list"),
	newFieldSpec(fieldStatus, "status"),
	newFieldSpec(fieldTag, "tag"),
}

func newFieldSpec(key fieldKey, label string) fieldSpec {
	return fieldSpec{
		key:   key,
		label: label,
		pattern: regexp.MustCompile(
			fmt.Sprintf(`(?i)^%s:\s*(.+)?$`, regexp.QuoteMeta(label)),
		),
	}
}

// placeholderPattern matches a value that is an unfilled template token:
// the entire value wrapped in a single pair of braces.
var placeholderPattern = regexp.MustCompile(`^\{[^{}]*\}$`)

// isPlaceholder reports whether the raw value is an unfilled template
// token and therefore equivalent to an absent field.
func isPlaceholder(raw string) bool {
	return placeholderPattern.MatchString(strings.TrimSpace(raw))
}

// scanFields walks the Markdown lines and collects the raw value for
// every recognized field label. A later line for the same label
// overwrites an earlier one, except that an empty or placeholder Name:
// line never displaces an earlier valid one. Values are trimmed and
// have trailing periods stripped.
func scanFields(lines []string) map[fieldKey]string {
	raws := make(map[fieldKey]string, len(fieldSpecs))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		for _, spec := range fieldSpecs {
			match := spec.pattern.FindStringSubmatch(line)
			if match == nil {
				continue
			}

			value := ""
			if len(match) > 1 {
				value = match[1]
			}
			value = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(value), "."))

			if spec.key == fieldName && (value == "" || isPlaceholder(value)) {
				continue
			}
			raws[spec.key] = value
		}
	}

	return raws
}

// isFieldLine reports whether the trimmed line begins with one of the
// recognized field labels followed by a colon.
func isFieldLine(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	for _, spec := range fieldSpecs {
		if strings.HasPrefix(lower, spec.label+":") {
			return true
		}
	}
	return false
}
