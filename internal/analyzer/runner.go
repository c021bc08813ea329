package analyzer

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/observability"
	"solana-trade-scout/internal/storage"
)

// DefaultInterval is the default analysis cadence.
const DefaultInterval = 15 * time.Minute

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	// Ledger feeds the analysis. Required.
	Ledger LedgerSource

	// Reports persists generated reports. Optional.
	Reports storage.ReportStore

	// Interval defaults to DefaultInterval when zero.
	Interval time.Duration

	// MinTrades defaults to DefaultMinTrades when zero.
	MinTrades int

	// Metrics is optional.
	Metrics *observability.Metrics
}

// Runner executes analysis cycles on a fixed timer and publishes each
// completed report on a channel for subscribers.
type Runner struct {
	opts      RunnerOptions
	completed chan *domain.AnalysisReport
	now       func() time.Time
}

// NewRunner creates a Runner.
func NewRunner(opts RunnerOptions) *Runner {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.MinTrades <= 0 {
		opts.MinTrades = DefaultMinTrades
	}
	return &Runner{
		opts:      opts,
		completed: make(chan *domain.AnalysisReport, 1),
		now:       time.Now,
	}
}

// WithClock sets a custom clock function for deterministic tests.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Completed delivers each generated report. Delivery is best-effort:
// when no subscriber is draining the channel, reports are dropped rather
// than blocking the analysis loop.
func (r *Runner) Completed() <-chan *domain.AnalysisReport {
	return r.completed
}

// Run executes analysis cycles until the context is cancelled.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	log.Info().Dur("interval", r.opts.Interval).Msg("trend analyzer started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("trend analyzer stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single analysis cycle. Returns the generated
// report, or nil when there were not enough closed trades. Skipping is
// silent apart from a debug log.
func (r *Runner) RunOnce(ctx context.Context) *domain.AnalysisReport {
	report := BuildReport(r.opts.Ledger, r.opts.MinTrades, r.now())
	if report == nil {
		if r.opts.Metrics != nil {
			r.opts.Metrics.AnalysisSkipped.Inc()
		}
		log.Debug().Int("minTrades", r.opts.MinTrades).Msg("analysis skipped, not enough closed trades")
		return nil
	}

	if r.opts.Metrics != nil {
		r.opts.Metrics.AnalysisRuns.Inc()
		r.opts.Metrics.ReportsGenerated.Inc()
	}

	if r.opts.Reports != nil {
		if err := r.opts.Reports.Save(ctx, report); err != nil {
			log.Error().Err(err).Msg("report persistence failed")
		}
	}

	select {
	case r.completed <- report:
	default:
		log.Debug().Msg("analysis report dropped, no subscriber draining")
	}

	log.Info().
		Int("closedTrades", report.Trend.TotalTrades).
		Float64("successRatePct", report.Trend.SuccessRatePct).
		Str("volatility", report.Trend.Signals.VolatilityLevel).
		Msg("analysis cycle completed")
	return report
}
