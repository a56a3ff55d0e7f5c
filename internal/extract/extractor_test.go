package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/task-extractor/internal/extract"
	"github.com/nhle/task-extractor/internal/model"
)

const testReference = "2024-03-01T10:00:00-05:00"

func newExtractor(t *testing.T, opts model.ExtractOptions) *extract.Extractor {
	t.Helper()
	return extract.New(opts, nil)
}

func defaultOptions() model.ExtractOptions {
	return model.ExtractOptions{
		TitleFallback: model.TitleFromSubject,
		MailEmoji:     model.EmojiOmit,
		DateFormat:    model.DateOrderUS,
	}
}

func TestExtract_AllFieldsPresent(t *testing.T) {
	t.Parallel()

	markdown := "Some intro text.\n" +
		"Name: Call dentist\n" +
		"Due: 12/25\n" +
		"Email Link: [original](https://mail.example.com/m/42)\n" +
		"Label: Urgent,  Home, \n" +
		"Priority: p1.\n" +
		"Smart List: dn\n" +
		"Status: todo\n" +
		"Tag: health\n"

	rec := newExtractor(t, defaultOptions()).
		Extract(markdown, "Reminder", testReference)

	assert.Equal(t, "Call dentist", rec.Name)
	require.NotNil(t, rec.Due)
	assert.Equal(t, "2024-12-25", *rec.Due)
	require.NotNil(t, rec.EmailLink)
	assert.Equal(t, "https://mail.example.com/m/42", *rec.EmailLink)
	assert.Equal(t, []string{"Urgent", "Home"}, rec.Label)
	require.NotNil(t, rec.Priority)
	assert.Equal(t, model.PriorityHigh, *rec.Priority)
	require.NotNil(t, rec.SmartList)
	assert.Equal(t, model.SmartListDoNext, *rec.SmartList)
	require.NotNil(t, rec.Status)
	assert.Equal(t, model.StatusToDo, *rec.Status)
	require.NotNil(t, rec.Tag)
	assert.Equal(t, "health", *rec.Tag)
	assert.Equal(t, markdown, rec.Content)
}

func TestExtract_NoFieldsYieldsNulls(t *testing.T) {
	t.Parallel()

	rec := newExtractor(t, defaultOptions()).
		Extract("Just a plain email body.", "Hello", testReference)

	assert.Equal(t, "Hello", rec.Name)
	assert.Nil(t, rec.Due)
	assert.Nil(t, rec.EmailLink)
	assert.Nil(t, rec.Label)
	assert.Nil(t, rec.Priority)
	assert.Nil(t, rec.SmartList)
	assert.Nil(t, rec.Status)
	assert.Nil(t, rec.Tag)
}

func TestExtract_PlaceholderValuesAreAbsent(t *testing.T) {
	t.Parallel()

	markdown := "Name: {Task Name}\n" +
		"Due: {Due Date}\n" +
		"Tag: {Tag}\n"

	rec := newExtractor(t, defaultOptions()).
		Extract(markdown, "Fallback subject", testReference)

	assert.Equal(t, "Fallback subject", rec.Name)
	assert.Nil(t, rec.Due)
	assert.Nil(t, rec.Tag)
}

func TestExtract_SubjectTitleCleaning(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.MailEmoji = model.EmojiBefore

	rec := newExtractor(t, opts).
		Extract("body text", "Subject: FWD: Buy milk", testReference)

	assert.Equal(t, "✉️ Buy milk", rec.Name)
}

func TestExtract_EmojiAfter(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.MailEmoji = model.EmojiAfter

	rec := newExtractor(t, opts).
		Extract("body text", "FW: Ship the release", testReference)

	assert.Equal(t, "Ship the release ✉️", rec.Name)
}

func TestExtract_BodyTitleFallback(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.TitleFallback = model.TitleFromBody

	markdown := "\n" +
		"Priority: high\n" +
		"Pick up groceries\n" +
		"More text.\n"

	rec := newExtractor(t, opts).
		Extract(markdown, "Ignored subject", testReference)

	assert.Equal(t, "Pick up groceries", rec.Name)
}

func TestExtract_BodyTitleFallsBackToSubject(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.TitleFallback = model.TitleFromBody

	markdown := "Priority: high\nStatus: doing\n"

	rec := newExtractor(t, opts).
		Extract(markdown, "Subject: The subject", testReference)

	assert.Equal(t, "The subject", rec.Name)
}

func TestExtract_NameFieldOverridesFallback(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.MailEmoji = model.EmojiBefore

	markdown := "Name: Call dentist\n"

	rec := newExtractor(t, opts).
		Extract(markdown, "Some subject", testReference)

	assert.Equal(t, "✉️ Call dentist", rec.Name)
}

func TestExtract_LastMatchWins(t *testing.T) {
	t.Parallel()

	markdown := "Status: doing\nStatus: done\n"

	rec := newExtractor(t, defaultOptions()).
		Extract(markdown, "Subject", testReference)

	require.NotNil(t, rec.Status)
	assert.Equal(t, model.StatusDone, *rec.Status)
}

func TestExtract_PlaceholderNameKeepsEarlierValidName(t *testing.T) {
	t.Parallel()

	markdown := "Name: Real task\nName: {Task Name}\n"

	rec := newExtractor(t, defaultOptions()).
		Extract(markdown, "Fallback subject", testReference)

	assert.Equal(t, "Real task", rec.Name)
}

func TestExtract_EmptyNameKeepsEarlierValidName(t *testing.T) {
	t.Parallel()

	markdown := "Name: Real task\nName:\n"

	rec := newExtractor(t, defaultOptions()).
		Extract(markdown, "Fallback subject", testReference)

	assert.Equal(t, "Real task", rec.Name)
}

func TestExtract_LabelCollapsesToEmptySlice(t *testing.T) {
	t.Parallel()

	rec := newExtractor(t, defaultOptions()).
		Extract("Label: ,   ,\n", "Subject", testReference)

	require.NotNil(t, rec.Label)
	assert.Empty(t, rec.Label)
}

func TestExtract_UnrecognizedVocabularyIsNull(t *testing.T) {
	t.Parallel()

	markdown := "Priority: urgent\nStatus: blocked\nSmart List: whenever\n"

	rec := newExtractor(t, defaultOptions()).
		Extract(markdown, "Subject", testReference)

	assert.Nil(t, rec.Priority)
	assert.Nil(t, rec.Status)
	assert.Nil(t, rec.SmartList)
}

func TestExtract_EmailLinkRawValue(t *testing.T) {
	t.Parallel()

	rec := newExtractor(t, defaultOptions()).
		Extract("Email Link: https://mail.example.com/m/42\n", "Subject", testReference)

	require.NotNil(t, rec.EmailLink)
	assert.Equal(t, "https://mail.example.com/m/42", *rec.EmailLink)
}

func TestExtract_FieldLabelsAreCaseInsensitive(t *testing.T) {
	t.Parallel()

	markdown := "PRIORITY: H\nsmart list: Do Next\n"

	rec := newExtractor(t, defaultOptions()).
		Extract(markdown, "Subject", testReference)

	require.NotNil(t, rec.Priority)
	assert.Equal(t, model.PriorityHigh, *rec.Priority)
	require.NotNil(t, rec.SmartList)
	assert.Equal(t, model.SmartListDoNext, *rec.SmartList)
}

func TestExtract_Idempotent(t *testing.T) {
	t.Parallel()

	markdown := "Name: Call dentist\nDue: 12/25\nPriority: low\n"
	ext := newExtractor(t, defaultOptions())

	first := ext.Extract(markdown, "Subject", testReference)
	second := ext.Extract(first.Content, "Subject", testReference)

	assert.Equal(t, first, second)
}
