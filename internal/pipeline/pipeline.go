// Package pipeline runs the two-stage transformation from one raw HTML
// email to one structured task record: sanitize to Markdown, then
// extract metadata fields.
package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nhle/task-extractor/internal/extract"
	"github.com/nhle/task-extractor/internal/model"
	"github.com/nhle/task-extractor/internal/sanitize"
)

// InputError indicates a required input was absent. It is the only
// condition that fails a run outright; malformed field values degrade
// to null instead.
type InputError struct {
	Field string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("missing required input: %s", e.Field)
}

// IsInputError reports whether err (or any error in its chain) is an
// InputError.
func IsInputError(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr)
}

// Pipeline transforms a single email into a task record. Every call is
// independent and stateless; the pipeline holds no mutable state.
type Pipeline struct {
	sanitizer *sanitize.Sanitizer
	extractor *extract.Extractor
	log       *zap.Logger
}

// New creates a Pipeline with the given extraction options. A nil
// logger disables tracing.
func New(opts model.ExtractOptions, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		sanitizer: sanitize.New(log),
		extractor: extract.New(opts, log),
		log:       log.Named("pipeline"),
	}
}

// Process sanitizes the email body and extracts the task record.
func (p *Pipeline) Process(input model.EmailInput) (*model.TaskRecord, error) {
	if input.HTMLBody == "" {
		return nil, &InputError{Field: "htmlBody"}
	}
	if input.SubjectLine == "" {
		return nil, &InputError{Field: "subjectLine"}
	}

	markdown, err := p.sanitizer.Sanitize(input.HTMLBody)
	if err != nil {
		return nil, fmt.Errorf("sanitizing email body: %w", err)
	}

	record := p.extractor.Extract(
		markdown, input.SubjectLine, input.ReferenceTimestamp,
	)

	p.log.Debug("processed email",
		zap.String("name", record.Name),
		zap.Bool("has_due", record.Due != nil))

	return record, nil
}
