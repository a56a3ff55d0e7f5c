// Package source defines the contract for retrieving raw task emails
// from an upstream mailbox.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// AuthError indicates that authentication has failed or expired for the
// mailbox. It is returned by clients when login is rejected.
type AuthError struct {
	Host    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Host, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// InboundEmail is one raw message retrieved from the mailbox, before
// any sanitization or extraction.
type InboundEmail struct {
	// UID is the message's IMAP UID within the watched mailbox.
	UID uint32

	// MessageID is the RFC 5322 Message-ID header value.
	MessageID string

	// Subject is the raw subject header value.
	Subject string

	// HTMLBody is the text/html MIME part, empty when absent.
	HTMLBody string

	// TextBody is the text/plain MIME part, empty when absent.
	TextBody string

	// ReceivedAt is the message date from the envelope.
	ReceivedAt time.Time
}

// Source retrieves unprocessed task emails and marks them handled.
type Source interface {
	// ValidateConnection verifies credentials and connectivity.
	// Returns the authenticated username on success.
	ValidateConnection(ctx context.Context) (string, error)

	// FetchUnprocessed retrieves up to limit messages that have not
	// been handled yet, oldest first.
	FetchUnprocessed(ctx context.Context, limit int) ([]InboundEmail, error)

	// MarkProcessed flags a message as handled so later fetches skip it.
	MarkProcessed(ctx context.Context, uid uint32) error
}
