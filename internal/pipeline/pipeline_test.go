package pipeline_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/task-extractor/internal/model"
	"github.com/nhle/task-extractor/internal/pipeline"
)

const taskEmailHTML = `<html>
<head><style>body { color: #333; }</style></head>
<body>
  <img src="https://mail.example.com/track/open?id=9" width="1" height="1">
  <p dir="auto">Name: Review quarterly report</p>
  <p dir="auto">Due: 12/25</p>
  <p dir="auto">Email Link: <a href="https://mail.example.com/m/77">message</a></p>
  <p>Priority: p2</p>
  <p>Label: Work, Finance</p>
  <p>Please have a look before the holidays.</p>
</body>
</html>`

func defaultOptions() model.ExtractOptions {
	return model.ExtractOptions{
		TitleFallback: model.TitleFromSubject,
		MailEmoji:     model.EmojiOmit,
		DateFormat:    model.DateOrderUS,
	}
}

func TestProcess_EndToEnd(t *testing.T) {
	t.Parallel()

	pipe := pipeline.New(defaultOptions(), nil)

	record, err := pipe.Process(model.EmailInput{
		HTMLBody:           taskEmailHTML,
		SubjectLine:        "FWD: Report reminder",
		ReferenceTimestamp: "2024-03-01T10:00:00-05:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "Review quarterly report", record.Name)
	require.NotNil(t, record.Due)
	assert.Equal(t, "2024-12-25", *record.Due)
	require.NotNil(t, record.EmailLink)
	assert.Equal(t, "https://mail.example.com/m/77", *record.EmailLink)
	require.NotNil(t, record.Priority)
	assert.Equal(t, model.PriorityMedium, *record.Priority)
	assert.Equal(t, []string{"Work", "Finance"}, record.Label)

	assert.NotContains(t, record.Content, "track/open")
	assert.Contains(t, record.Content, "Please have a look before the holidays.")
}

func TestProcess_MissingInputsFail(t *testing.T) {
	t.Parallel()

	pipe := pipeline.New(defaultOptions(), nil)

	_, err := pipe.Process(model.EmailInput{
		SubjectLine:        "No body",
		ReferenceTimestamp: "2024-03-01T10:00:00-05:00",
	})
	require.Error(t, err)
	assert.True(t, pipeline.IsInputError(err))

	_, err = pipe.Process(model.EmailInput{
		HTMLBody:           "<p>hi</p>",
		ReferenceTimestamp: "2024-03-01T10:00:00-05:00",
	})
	require.Error(t, err)
	assert.True(t, pipeline.IsInputError(err))
}

func TestProcess_AllMetadataKeysSerialized(t *testing.T) {
	t.Parallel()

	pipe := pipeline.New(defaultOptions(), nil)

	record, err := pipe.Process(model.EmailInput{
		HTMLBody:           "<p>No metadata here at all.</p>",
		SubjectLine:        "Plain email",
		ReferenceTimestamp: "2024-03-01T10:00:00-05:00",
	})
	require.NoError(t, err)

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &keys))

	for _, key := range []string{
		"content", "name", "due", "email_link", "label",
		"priority", "smart_list", "status", "tag",
	} {
		assert.Contains(t, keys, key)
	}
}

func TestProcess_ExtractorReentrantOnContent(t *testing.T) {
	t.Parallel()

	pipe := pipeline.New(defaultOptions(), nil)

	input := model.EmailInput{
		HTMLBody:           taskEmailHTML,
		SubjectLine:        "FWD: Report reminder",
		ReferenceTimestamp: "2024-03-01T10:00:00-05:00",
	}

	first, err := pipe.Process(input)
	require.NoError(t, err)

	second, err := pipe.Process(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
