package model

// TitleFallback selects where the task title comes from when the email
// carries no explicit Name: line.
type TitleFallback string

const (
	// TitleFromSubject derives the fallback title from the subject header.
	TitleFromSubject TitleFallback = "subject"

	// TitleFromBody derives the fallback title from the first body line
	// that is not a metadata field line.
	TitleFromBody TitleFallback = "body"
)

// EmojiPlacement controls where the mail emoji marker is placed on titles.
type EmojiPlacement string

const (
	EmojiBefore EmojiPlacement = "before"
	EmojiAfter  EmojiPlacement = "after"
	EmojiOmit   EmojiPlacement = "omit"
)

// DateOrder selects the locale convention for numeric slash dates.
type DateOrder string

const (
	// DateOrderUS reads D/D as month/day.
	DateOrderUS DateOrder = "us"

	// DateOrderEU reads D/D as day/month.
	DateOrderEU DateOrder = "eu"
)

// ExtractOptions holds the resolved per-run extraction configuration.
type ExtractOptions struct {
	TitleFallback TitleFallback  `mapstructure:"title_fallback" yaml:"title_fallback"`
	MailEmoji     EmojiPlacement `mapstructure:"mail_emoji" yaml:"mail_emoji"`
	DateFormat    DateOrder      `mapstructure:"date_format" yaml:"date_format"`
}

// Normalize replaces unrecognized option values with their defaults
// (subject fallback, no emoji, US date order).
func (o ExtractOptions) Normalize() ExtractOptions {
	switch o.TitleFallback {
	case TitleFromSubject, TitleFromBody:
	default:
		o.TitleFallback = TitleFromSubject
	}

	switch o.MailEmoji {
	case EmojiBefore, EmojiAfter, EmojiOmit:
	default:
		o.MailEmoji = EmojiOmit
	}

	switch o.DateFormat {
	case DateOrderUS, DateOrderEU:
	default:
		o.DateFormat = DateOrderUS
	}

	return o
}
