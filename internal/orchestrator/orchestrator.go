// File: internal/orchestrator/orchestrator.go

// Package orchestrator drives a whole fill run: parse once, then generate
// and submit N responses strictly sequentially, streaming progress events
// and producing a final aggregate summary.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
)

// ErrNoQuestions marks a form whose fetch succeeded but whose extraction
// yielded nothing answerable. Distinct from a fetch failure.
var ErrNoQuestions = errors.New("no questions found in the form")

// ProgressSink receives progress events in iteration order. A Send error
// means the caller is gone; the orchestrator aborts the remaining
// iterations rather than continuing to burn requests against the target.
type ProgressSink interface {
	Send(ev schemas.StreamEvent) error
}

// Orchestrator manages the lifecycle of fill runs. It is injected with its
// collaborators via interfaces, making it decoupled and testable.
type Orchestrator struct {
	parser      schemas.FormParser
	generator   schemas.AnswerProducer
	submitter   schemas.FormSubmitter
	submitDelay time.Duration
	logger      *zap.Logger
}

// New creates an Orchestrator with its dependencies provided as interfaces.
func New(
	parser schemas.FormParser,
	generator schemas.AnswerProducer,
	submitter schemas.FormSubmitter,
	submitDelay time.Duration,
	logger *zap.Logger,
) (*Orchestrator, error) {
	if parser == nil || generator == nil || submitter == nil || logger == nil {
		return nil, fmt.Errorf("cannot initialize orchestrator with nil dependencies")
	}
	return &Orchestrator{
		parser:      parser,
		generator:   generator,
		submitter:   submitter,
		submitDelay: submitDelay,
		logger:      logger.Named("orchestrator"),
	}, nil
}

// Run executes one fill request. Iterations run strictly sequentially with
// a fixed pause between them. Only form level failures (bad URL, fetch
// failure, zero questions) terminate the run early; per-iteration failures
// are recorded and the loop proceeds. Terminal error events are emitted on
// the sink before returning.
func (o *Orchestrator) Run(ctx context.Context, req schemas.FillFormRequest, sink ProgressSink) (*schemas.FillSummary, error) {
	start := time.Now()
	total := req.NumResponses
	runID := uuid.NewString()

	log := o.logger.With(zap.String("run_id", runID))
	log.Info("fill run starting",
		zap.String("form_url", req.FormURL),
		zap.Int("responses", total),
		zap.Bool("use_ai", req.AIEnabled()),
	)

	if err := sink.Send(schemas.StatusEvent("Parsing form...", 0, total)); err != nil {
		return nil, fmt.Errorf("progress stream closed: %w", err)
	}

	form, err := o.parser.Parse(ctx, req.FormURL)
	if err != nil {
		log.Warn("form parse failed", zap.Error(err))
		_ = sink.Send(schemas.ErrorEvent(err.Error()))
		return nil, err
	}

	if len(form.Questions) == 0 {
		log.Warn("form parsed but contained no questions", zap.String("form_id", form.FormID))
		_ = sink.Send(schemas.ErrorEvent(ErrNoQuestions.Error()))
		return nil, ErrNoQuestions
	}

	if err := sink.Send(schemas.StatusEvent("Form parsed successfully. Starting submissions...", 0, total)); err != nil {
		return nil, fmt.Errorf("progress stream closed: %w", err)
	}

	summary := &schemas.FillSummary{
		TotalRequested: total,
		Submissions:    make([]schemas.SubmissionOutcome, 0, total),
	}

	for i := 0; i < total; i++ {
		responseNumber := i + 1

		if err := sink.Send(schemas.ProgressEvent(fmt.Sprintf("Generating response %d...", responseNumber), i, total)); err != nil {
			log.Warn("caller disconnected, aborting remaining iterations",
				zap.Int("completed", len(summary.Submissions)))
			return nil, fmt.Errorf("progress stream closed: %w", err)
		}

		answers := o.generator.GenerateFormAnswers(ctx, form.Questions, req.UserData, req.AIEnabled())

		if err := sink.Send(schemas.ProgressEvent(fmt.Sprintf("Submitting response %d...", responseNumber), i, total)); err != nil {
			return nil, fmt.Errorf("progress stream closed: %w", err)
		}

		result := o.submitter.Submit(ctx, form.SubmitEndpoint, answers)

		outcome := schemas.SubmissionOutcome{
			Success:        result.Success,
			ResponseNumber: responseNumber,
			Timestamp:      time.Now().UTC(),
		}
		if result.Success {
			summary.SuccessCount++
			outcome.Answers = answers
		} else {
			summary.FailedCount++
			outcome.ErrorDetail = result.ErrorDetail
			if outcome.ErrorDetail == "" {
				outcome.ErrorDetail = "Submission failed"
			}
		}
		summary.Submissions = append(summary.Submissions, outcome)

		if err := sink.Send(schemas.SubmissionEvent(result.Success, responseNumber, outcome.ErrorDetail, total)); err != nil {
			return nil, fmt.Errorf("progress stream closed: %w", err)
		}

		// Fixed pause between iterations, not after the last, so the
		// target endpoint is not hammered.
		if i < total-1 && o.submitDelay > 0 {
			select {
			case <-time.After(o.submitDelay):
			case <-ctx.Done():
				log.Warn("fill run cancelled mid-pause", zap.Int("completed", len(summary.Submissions)))
				return nil, ctx.Err()
			}
		}
	}

	summary.DurationMillis = time.Since(start).Milliseconds()

	log.Info("fill run complete",
		zap.Int("succeeded", summary.SuccessCount),
		zap.Int("failed", summary.FailedCount),
		zap.Int64("duration_ms", summary.DurationMillis),
	)

	if err := sink.Send(schemas.CompleteEvent(summary)); err != nil {
		return summary, fmt.Errorf("progress stream closed: %w", err)
	}
	return summary, nil
}
