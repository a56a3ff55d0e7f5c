package model

import "time"

// Priority is the normalized task priority vocabulary.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Status is the normalized task status vocabulary.
type Status string

const (
	StatusToDo  Status = "To Do"
	StatusDoing Status = "Doing"
	StatusDone  Status = "Done"
)

// SmartList is the triage bucket vocabulary.
type SmartList string

const (
	SmartListDoNext    SmartList = "Do Next"
	SmartListDelegated SmartList = "Delegated"
	SmartListSomeday   SmartList = "Someday"
)

// EmailInput is the immutable input to a single extraction run: the raw
// HTML body, the raw subject header, and the reference timestamp used to
// anchor relative due dates. The reference timestamp is an ISO-8601 string
// with an explicit UTC offset, supplied by the timezone clock.
type EmailInput struct {
	HTMLBody           string
	SubjectLine        string
	ReferenceTimestamp string
}

// TaskRecord is the structured result of one extraction run. All eight
// metadata keys are always serialized, as null when the email did not
// carry the field.
type TaskRecord struct {
	// Content is the sanitized Markdown body, metadata lines included.
	Content string `json:"content"`

	// Name is the task title, derived from the Name: field or the
	// configured fallback (subject or first body line).
	Name string `json:"name"`

	// Due is the resolved due date in YYYY-MM-DD form.
	Due *string `json:"due"`

	// EmailLink is a back-reference URL to the original message.
	EmailLink *string `json:"email_link"`

	// Label holds the comma-split label values. A label line that
	// collapses to zero non-empty parts yields an empty slice; an
	// absent or placeholder line yields nil.
	Label []string `json:"label"`

	// Priority is the normalized priority, if recognized.
	Priority *Priority `json:"priority"`

	// SmartList is the normalized triage bucket, if recognized.
	SmartList *SmartList `json:"smart_list"`

	// Status is the normalized status, if recognized.
	Status *Status `json:"status"`

	// Tag is the raw tag value, trimmed.
	Tag *string `json:"tag"`
}

// StoredRecord wraps a TaskRecord with persistence identity and
// provenance from the source message.
type StoredRecord struct {
	// ID is the internal unique identifier for this record.
	ID string `json:"id"`

	// MessageID is the RFC 5322 Message-ID of the source email.
	MessageID string `json:"message_id"`

	// Subject is the raw subject header of the source email.
	Subject string `json:"subject"`

	// Record is the extraction result.
	Record TaskRecord `json:"record"`

	// ExtractedAt is when the extraction ran.
	ExtractedAt time.Time `json:"extracted_at"`
}
