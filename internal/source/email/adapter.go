package email

import (
	"context"
	"fmt"

	"github.com/nhle/task-extractor/internal/source"
)

// Adapter implements source.Source over an IMAP mailbox.
type Adapter struct {
	client   *IMAPClient
	username string
}

// NewAdapter creates a new IMAP-backed email source.
func NewAdapter(
	host, port, username, password, mailbox string, tls bool,
) *Adapter {
	return &Adapter{
		client:   NewIMAPClient(host, port, username, password, mailbox, tls),
		username: username,
	}
}

// ValidateConnection verifies IMAP credentials by connecting,
// authenticating, and selecting the watched mailbox. Returns the
// username on success.
func (a *Adapter) ValidateConnection(
	ctx context.Context,
) (string, error) {
	client, err := a.client.Connect(ctx)
	if err != nil {
		return "", fmt.Errorf("validating email connection: %w", err)
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select(a.client.mailbox, nil).Wait(); err != nil {
		return "", fmt.Errorf("selecting %s: %w", a.client.mailbox, err)
	}

	return a.username, nil
}

// FetchUnprocessed retrieves unseen messages from the mailbox.
func (a *Adapter) FetchUnprocessed(
	ctx context.Context, limit int,
) ([]source.InboundEmail, error) {
	messages, err := a.client.FetchUnseen(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching task emails: %w", err)
	}

	emails := make([]source.InboundEmail, 0, len(messages))
	for _, msg := range messages {
		emails = append(emails, source.InboundEmail{
			UID:        msg.Envelope.UID,
			MessageID:  msg.Envelope.MessageID,
			Subject:    msg.Envelope.Subject,
			HTMLBody:   msg.HTMLBody,
			TextBody:   msg.TextBody,
			ReceivedAt: msg.Envelope.Date,
		})
	}

	return emails, nil
}

// MarkProcessed flags the message as seen so later fetches skip it.
func (a *Adapter) MarkProcessed(ctx context.Context, uid uint32) error {
	if err := a.client.MarkSeen(ctx, uid); err != nil {
		return fmt.Errorf("marking message %d processed: %w", uid, err)
	}
	return nil
}
