package model_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/task-extractor/internal/model"
)

const configYAML = `
imap:
  host: imap.example.com
  username: tasks@example.com
  batch_size: 10
extract:
  title_fallback: body
  mail_emoji: before
  date_format: eu
timezone: America/New_York
`

func TestLoadConfig_ReadsFileWithDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o644))

	cfg, err := model.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "imap.example.com", cfg.IMAP.Host)
	assert.Equal(t, "tasks@example.com", cfg.IMAP.Username)
	assert.Equal(t, 10, cfg.IMAP.BatchSize)
	assert.Equal(t, model.TitleFromBody, cfg.Extract.TitleFallback)
	assert.Equal(t, model.EmojiBefore, cfg.Extract.MailEmoji)
	assert.Equal(t, model.DateOrderEU, cfg.Extract.DateFormat)
	assert.Equal(t, "America/New_York", cfg.Timezone)

	// Defaults fill in what the file omits.
	assert.Equal(t, "993", cfg.IMAP.Port)
	assert.True(t, cfg.IMAP.TLS)
	assert.Equal(t, "INBOX", cfg.IMAP.Mailbox)
	assert.Equal(t, 120, cfg.PollIntervalSec)
}

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := model.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, model.TitleFromSubject, cfg.Extract.TitleFallback)
	assert.Equal(t, model.EmojiOmit, cfg.Extract.MailEmoji)
	assert.Equal(t, model.DateOrderUS, cfg.Extract.DateFormat)
	assert.Equal(t, "UTC", cfg.Timezone)
}

func TestExtractOptions_NormalizeRejectsUnknownValues(t *testing.T) {
	t.Parallel()

	opts := model.ExtractOptions{
		TitleFallback: "banner",
		MailEmoji:     "everywhere",
		DateFormat:    "iso",
	}.Normalize()

	assert.Equal(t, model.TitleFromSubject, opts.TitleFallback)
	assert.Equal(t, model.EmojiOmit, opts.MailEmoji)
	assert.Equal(t, model.DateOrderUS, opts.DateFormat)
}
