// Package sync polls the mailbox, runs each new email through the
// extraction pipeline, and persists the resulting records.
package sync

import (
	"context"
	"regexp"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/task-extractor/internal/clock"
	"github.com/nhle/task-extractor/internal/model"
	"github.com/nhle/task-extractor/internal/pipeline"
	"github.com/nhle/task-extractor/internal/source"
	"github.com/nhle/task-extractor/internal/store"
)

// State represents the current state of the sync loop.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateError
)

// Status holds the observable state of the poller.
type Status struct {
	State     State
	LastSync  time.Time
	LastError error
	Processed int
}

// Poller runs the fetch-extract-store loop on an interval.
type Poller struct {
	src       source.Source
	pipe      *pipeline.Pipeline
	store     store.Store
	clock     clock.Clock
	interval  time.Duration
	batchSize int
	log       *zap.Logger

	triggerCh chan struct{}
	stopCh    chan struct{}

	mu      gosync.Mutex
	status  Status
	running bool
}

// New creates a Poller. A nil logger disables tracing.
func New(
	src source.Source,
	pipe *pipeline.Pipeline,
	st store.Store,
	clk clock.Clock,
	interval time.Duration,
	batchSize int,
	log *zap.Logger,
) *Poller {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = 2 * time.Minute
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Poller{
		src:       src,
		pipe:      pipe,
		store:     st,
		clock:     clk,
		interval:  interval,
		batchSize: batchSize,
		log:       log.Named("sync"),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the background sync loop. It returns immediately;
// subsequent calls while running are no-ops.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	go p.loop(ctx)
}

// Stop terminates the background loop.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	close(p.stopCh)
}

// TriggerSync requests an immediate sync run outside the interval.
func (p *Poller) TriggerSync() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
}

// Status returns a snapshot of the poller state.
func (p *Poller) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Poller) loop(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.SyncNow(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-p.triggerCh:
			p.SyncNow(ctx)
		case <-ticker.C:
			p.SyncNow(ctx)
		}
	}
}

// SyncNow runs one fetch-extract-store pass synchronously. A single bad
// email is logged and skipped; it never stops the run.
func (p *Poller) SyncNow(ctx context.Context) {
	p.setState(StateRunning, nil)

	emails, err := p.src.FetchUnprocessed(ctx, p.batchSize)
	if err != nil {
		if source.IsAuthError(err) {
			p.log.Error("mailbox authentication failed", zap.Error(err))
		} else {
			p.log.Warn("fetching emails failed", zap.Error(err))
		}
		p.setState(StateError, err)
		return
	}

	reference := p.clock.Now()
	extractedAt := time.Now()

	var records []model.StoredRecord
	var processed []uint32

	for _, email := range emails {
		if email.HTMLBody == "" {
			p.log.Debug("skipping email without html body",
				zap.Uint32("uid", email.UID))
			processed = append(processed, email.UID)
			continue
		}

		record, err := p.pipe.Process(model.EmailInput{
			HTMLBody:           email.HTMLBody,
			SubjectLine:        email.Subject,
			ReferenceTimestamp: reference,
		})
		if err != nil {
			p.log.Warn("extraction failed",
				zap.Uint32("uid", email.UID),
				zap.String("message_id", email.MessageID),
				zap.Error(err))
			processed = append(processed, email.UID)
			continue
		}

		records = append(records, model.StoredRecord{
			ID:          recordID(email.MessageID),
			MessageID:   email.MessageID,
			Subject:     email.Subject,
			Record:      *record,
			ExtractedAt: extractedAt,
		})
		processed = append(processed, email.UID)
	}

	if err := p.store.UpsertRecords(ctx, records); err != nil {
		p.log.Error("storing records failed", zap.Error(err))
		p.setState(StateError, err)
		return
	}

	for _, uid := range processed {
		if err := p.src.MarkProcessed(ctx, uid); err != nil {
			p.log.Warn("marking message processed failed",
				zap.Uint32("uid", uid), zap.Error(err))
		}
	}

	p.log.Info("sync complete",
		zap.Int("fetched", len(emails)),
		zap.Int("stored", len(records)))

	p.mu.Lock()
	p.status = Status{
		State:     StateIdle,
		LastSync:  time.Now(),
		Processed: p.status.Processed + len(records),
	}
	p.mu.Unlock()
}

func (p *Poller) setState(state State, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status.State = state
	p.status.LastError = err
}

// idUnsafeChars matches characters that are not safe for use in a
// record ID.
var idUnsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// recordID derives a stable record ID from the message ID, falling back
// to a random UUID for messages without one.
func recordID(messageID string) string {
	if messageID == "" {
		return uuid.NewString()
	}
	return "email-" + idUnsafeChars.ReplaceAllString(messageID, "_")
}
