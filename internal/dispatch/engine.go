// Package dispatch runs a batch: it selects recipients from the directory,
// renders and sends one message per recipient and summarizes the outcomes.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/outreach/internal/auth"
	"github.com/outreach/internal/directory"
	"github.com/outreach/internal/mailer"
	"github.com/outreach/internal/model"
)

type Engine struct {
	directory *directory.Directory
	transport mailer.Transport
	logger    *slog.Logger
	workers   int
}

type Option func(*Engine)

// WithWorkers bounds how many sends of one batch run at the same time.
// The default of 1 sends strictly in order.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func New(dir *directory.Directory, transport mailer.Transport, opts ...Option) *Engine {
	e := &Engine{
		directory: dir,
		transport: transport,
		logger:    slog.Default(),
		workers:   1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Candidates returns the contacts in [from, to] that have a usable address.
func (e *Engine) Candidates(from, to int) []model.Contact {
	selected := directory.Select(e.directory, from, to)

	candidates := make([]model.Contact, 0, len(selected))
	for _, c := range selected {
		if mailer.IsValidAddress(c.Email) {
			candidates = append(candidates, c)
		}
	}
	if dropped := len(selected) - len(candidates); dropped > 0 {
		e.logger.Debug("dispatch: skipped invalid addresses", "count", dropped)
	}
	return candidates
}

// Run validates req, sends the batch and returns its report. Per-recipient
// failures end up in the report; only invalid input and an empty recipient
// set are returned as errors.
func (e *Engine) Run(ctx context.Context, req model.BatchRequest) (model.BatchReport, error) {
	if err := ValidateRequest(req); err != nil {
		return model.BatchReport{}, err
	}

	batchID := uuid.NewString()
	logger := e.logger.With("batch_id", batchID)

	candidates := e.Candidates(req.RangeStart, req.RangeEnd)
	logger.Info("dispatch: batch started",
		"sender", req.Sender,
		"credential", auth.Fingerprint(req.Credential),
		"from", req.RangeStart,
		"to", req.RangeEnd,
		"recipients", len(candidates),
		"attachment", req.Attachment != nil,
	)

	outcomes, err := e.dispatch(ctx, logger, req, candidates)
	if err != nil {
		logger.Warn("dispatch: batch rejected", "error", err)
		return model.BatchReport{BatchID: batchID}, err
	}

	report := Summarize(outcomes)
	report.BatchID = batchID

	logger.Info("dispatch: batch finished",
		"status", report.Status,
		"sent", report.SuccessCount,
		"attempted", report.TotalAttempted,
	)
	return report, nil
}

// Dispatch sends one message per candidate and returns the outcomes in
// candidate order. A failed send is recorded and never stops the batch.
func (e *Engine) Dispatch(ctx context.Context, req model.BatchRequest, candidates []model.Contact) ([]model.Outcome, error) {
	return e.dispatch(ctx, e.logger, req, candidates)
}

func (e *Engine) dispatch(ctx context.Context, logger *slog.Logger, req model.BatchRequest, candidates []model.Contact) ([]model.Outcome, error) {
	if len(candidates) == 0 {
		return nil, ErrNoRecipients
	}

	// Each goroutine owns exactly one slot.
	outcomes := make([]model.Outcome, len(candidates))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, c := range candidates {
		g.Go(func() error {
			outcomes[i] = e.send(ctx, logger, req, c)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes, nil
}

func (e *Engine) send(ctx context.Context, logger *slog.Logger, req model.BatchRequest, c model.Contact) (outcome model.Outcome) {
	outcome.Email = c.Email

	defer func() {
		if r := recover(); r != nil {
			logger.Error("dispatch: transport panicked", "to", c.Email, "panic", r)
			outcome.Succeeded = false
			outcome.Error = fmt.Sprintf("transport failure: %v", r)
		}
	}()

	msg := mailer.RenderMessage(req, c)
	if err := e.transport.Send(ctx, req.Sender, req.Credential, msg); err != nil {
		logger.Warn("dispatch: send failed", "to", c.Email, "sno", c.Ordinal, "error", err)
		outcome.Error = err.Error()
		return outcome
	}

	logger.Debug("dispatch: sent", "to", c.Email, "sno", c.Ordinal)
	outcome.Succeeded = true
	return outcome
}
