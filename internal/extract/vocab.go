package extract

import (
	"regexp"
	"strings"

	"github.com/nhle/task-extractor/internal/model"
)

// Controlled vocabularies mapping free-text values to their normalized
// forms. Lookup is case-insensitive on the trimmed value; anything not
// in the table resolves to null.

var priorityVocab = map[string]model.Priority{
	"high":   model.PriorityHigh,
	"h":      model.PriorityHigh,
	"p1":     model.PriorityHigh,
	"medium": model.PriorityMedium,
	"m":      model.PriorityMedium,
	"p2":     model.PriorityMedium,
	"low":    model.PriorityLow,
	"l":      model.PriorityLow,
	"p3":     model.PriorityLow,
}

var statusVocab = map[string]model.Status{
	"to do": model.StatusToDo,
	"todo":  model.StatusToDo,
	"td":    model.StatusToDo,
	"doing": model.StatusDoing,
	"done":  model.StatusDone,
}

var smartListVocab = map[string]model.SmartList{
	"donext":    model.SmartListDoNext,
	"dn":        model.SmartListDoNext,
	"do":        model.SmartListDoNext,
	"do next":   model.SmartListDoNext,
	"delegated": model.SmartListDelegated,
	"del":       model.SmartListDelegated,
	"someday":   model.SmartListSomeday,
	"some":      model.SmartListSomeday,
	"s":         model.SmartListSomeday,
}

func normalizePriority(raw string) *model.Priority {
	if v, ok := priorityVocab[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return &v
	}
	return nil
}

func normalizeStatus(raw string) *model.Status {
	if v, ok := statusVocab[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return &v
	}
	return nil
}

func normalizeSmartList(raw string) *model.SmartList {
	if v, ok := smartListVocab[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return &v
	}
	return nil
}

// markdownLinkPattern matches a full-value Markdown link [text](url).
var markdownLinkPattern = regexp.MustCompile(`^\[[^\]]*\]\(([^)]+)\)$`)

// normalizeEmailLink extracts the URL out of a Markdown link value, or
// returns the trimmed raw value when it is not one.
func normalizeEmailLink(raw string) *string {
	raw = strings.TrimSpace(raw)
	if match := markdownLinkPattern.FindStringSubmatch(raw); match != nil {
		return &match[1]
	}
	return &raw
}

// splitLabels splits the raw value on commas, trimming each part and
// dropping empties. A value that collapses to nothing yields an empty
// slice, not nil; nil is reserved for absent or placeholder values.
func splitLabels(raw string) []string {
	parts := strings.Split(raw, ",")
	labels := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			labels = append(labels, part)
		}
	}
	return labels
}
