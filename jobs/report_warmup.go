package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/scienceclub/hallhub/internal/observability"
	"github.com/scienceclub/hallhub/internal/reports"
)

// ReportWarmupJob pre-populates the financial report caches so the first
// morning visit does not pay the aggregation cost.
type ReportWarmupJob struct {
	Reports *reports.Service
	Logger  *slog.Logger
	Metrics *observability.Metrics
	clock   func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(reportsSvc *reports.Service, logger *slog.Logger, metrics *observability.Metrics) *ReportWarmupJob {
	return &ReportWarmupJob{
		Reports: reportsSvc,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report warmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("report warmup: handler not configured")
	}
	logger := j.logger()
	logger.Info("starting report warmup")

	warmCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	now := j.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	rng := reports.Range{From: from, To: from.AddDate(0, 1, 0)}

	if _, err := j.Reports.Summary(warmCtx, rng); err != nil {
		j.observe("failure")
		logger.Error("warm summary", slog.Any("error", err))
		return err
	}
	if _, err := j.Reports.Groups(warmCtx); err != nil {
		j.observe("failure")
		logger.Error("warm groups", slog.Any("error", err))
		return err
	}

	j.observe("success")
	logger.Info("completed report warmup", slog.Duration("duration", time.Since(now)))
	return nil
}

func (j *ReportWarmupJob) observe(outcome string) {
	if j.Metrics != nil {
		j.Metrics.ObserveJob(TaskTypeReportWarmup, outcome)
	}
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeReportWarmup))
	}
	return slog.Default().With(slog.String("job", TaskTypeReportWarmup))
}

func (j *ReportWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
