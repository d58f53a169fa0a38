package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/simaogato/finfolio-backend/internal/usecase/alerts"
)

// DefaultJobTimeout bounds a single job run
const DefaultJobTimeout = 30 * time.Second

// Refresher requotes the current portfolio
type Refresher interface {
	RefreshData(ctx context.Context) error
}

// AlertChecker evaluates active price alerts
type AlertChecker interface {
	CheckAlerts(ctx context.Context) ([]alerts.Trigger, error)
}

// RefreshJob periodically reloads the portfolio with fresh quotes
type RefreshJob struct {
	store   Refresher
	timeout time.Duration
}

// NewRefreshJob creates a new RefreshJob
func NewRefreshJob(store Refresher, timeout time.Duration) *RefreshJob {
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	return &RefreshJob{store: store, timeout: timeout}
}

func (j *RefreshJob) Name() string { return "refresh_portfolio" }

func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	return j.store.RefreshData(ctx)
}

// AlertJob periodically checks price alerts and logs the ones that fired
type AlertJob struct {
	checker AlertChecker
	timeout time.Duration
	log     zerolog.Logger
}

// NewAlertJob creates a new AlertJob
func NewAlertJob(checker AlertChecker, timeout time.Duration, log zerolog.Logger) *AlertJob {
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	return &AlertJob{
		checker: checker,
		timeout: timeout,
		log:     log.With().Str("job", "check_alerts").Logger(),
	}
}

func (j *AlertJob) Name() string { return "check_alerts" }

func (j *AlertJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	triggered, err := j.checker.CheckAlerts(ctx)
	if err != nil {
		return err
	}
	if len(triggered) > 0 {
		j.log.Info().Int("triggered", len(triggered)).Msg("Price alerts fired")
	}
	return nil
}
