// Package executor runs render job batches and aggregates their outcomes.
package executor

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/creativelab/compositor/pkg/compositor"
	"github.com/creativelab/compositor/pkg/schemas"
)

// Compositor renders one job. Both the static and video compositors satisfy
// this.
type Compositor interface {
	Composite(ctx context.Context, job *schemas.RenderJob) error
}

// Executor renders job batches sequentially. A failed job is recorded and
// never aborts the batch.
type Executor struct {
	static    Compositor
	video     Compositor
	publisher *Publisher
	logger    *slog.Logger
}

// Option is a functional option for Executor.
type Option func(*Executor)

// WithStaticCompositor replaces the static image compositor.
func WithStaticCompositor(c Compositor) Option {
	return func(e *Executor) {
		e.static = c
	}
}

// WithVideoCompositor replaces the video compositor.
func WithVideoCompositor(c Compositor) Option {
	return func(e *Executor) {
		e.video = c
	}
}

// WithPublisher attaches a publisher for mirroring outputs to a remote
// destination.
func WithPublisher(p *Publisher) Option {
	return func(e *Executor) {
		e.publisher = p
	}
}

// WithLogger sets the batch logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// New creates an executor with real compositors.
func New(opts ...Option) *Executor {
	e := &Executor{
		static: compositor.NewStatic(),
		video:  compositor.NewVideo(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecuteOptions controls a single batch run.
type ExecuteOptions struct {
	// OnProgress, when set, is invoked after every job with the count of
	// completed jobs, the batch size, and a short job description.
	OnProgress func(done, total int, description string)

	// PublishPrefix, when set, mirrors each successful output under this
	// destination URI prefix.
	PublishPrefix string
}

// Execute renders every job in order. The returned result accounts for each
// job exactly once; individual failures are classified and collected rather
// than propagated. The only error return is a cancelled context.
func (e *Executor) Execute(ctx context.Context, jobs []*schemas.RenderJob, opts ExecuteOptions) (*schemas.BatchResult, error) {
	result := &schemas.BatchResult{
		BatchID: uuid.NewString(),
	}

	e.logger.Info("starting batch", "batch_id", result.BatchID, "jobs", len(jobs))

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := e.renderOne(ctx, job, opts.PublishPrefix); err != nil {
			class := compositor.Classify(err)
			e.logger.Error("job failed",
				"batch_id", result.BatchID,
				"output", job.OutputPath,
				"class", class,
				"error", err)
			result.Failed++
			result.Failures = append(result.Failures, schemas.JobFailure{
				OutputPath: job.OutputPath,
				Class:      class,
				Message:    err.Error(),
			})
		} else {
			result.Success++
			result.Outputs = append(result.Outputs, job.OutputPath)
		}

		if opts.OnProgress != nil {
			opts.OnProgress(i+1, len(jobs), job.Description())
		}
	}

	e.logger.Info("batch finished",
		"batch_id", result.BatchID,
		"success", result.Success,
		"failed", result.Failed)

	return result, nil
}

func (e *Executor) renderOne(ctx context.Context, job *schemas.RenderJob, publishPrefix string) error {
	var c Compositor
	switch job.Kind {
	case schemas.KindVideo:
		c = e.video
	default:
		c = e.static
	}

	if err := c.Composite(ctx, job); err != nil {
		return err
	}

	if publishPrefix != "" && e.publisher != nil {
		return e.publisher.Publish(ctx, job.OutputPath, publishPrefix)
	}
	return nil
}
